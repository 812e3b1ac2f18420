package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/edvin/retailpos/internal/config"
)

// NewLogger creates a structured zerolog.Logger tagged with the service name.
// When LOG_FILE is set, output is also written to a size-rotated file.
func NewLogger(cfg *config.Config, service string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		})
	}

	ctx := zerolog.New(out).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
