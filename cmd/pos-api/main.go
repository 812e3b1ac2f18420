package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/retailpos/internal/api"
	"github.com/edvin/retailpos/internal/app"
	"github.com/edvin/retailpos/internal/config"
	"github.com/edvin/retailpos/internal/jobs"
	"github.com/edvin/retailpos/internal/logging"
	"github.com/edvin/retailpos/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg, "pos-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start application")
	}
	defer application.Close(context.Background())

	in := application.Integrations
	logger.Info().
		Bool("ghl", in.OAuth != nil).
		Bool("stripe", in.Stripe != nil).
		Bool("snapshot", in.Snapshot != nil).
		Bool("stripe_test_mode", cfg.StripeTestMode()).
		Msg("integrations configured")

	metrics.RegisterEventClients(application.Events.Count)

	scheduler := jobs.NewScheduler(logger)
	if err := application.ScheduleJobs(scheduler); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule jobs")
	}
	scheduler.Start()

	tlsConfig, err := cfg.ServerTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure TLS")
	}

	srv := api.NewServer(logger, cfg, application.Services, application.ServerOptions())

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		TLSConfig:    tlsConfig,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Bool("tls", tlsConfig != nil).Msg("starting POS API server")
		var err error
		if tlsConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	scheduler.Stop(shutdownCtx)
	httpServer.Shutdown(shutdownCtx)
}
