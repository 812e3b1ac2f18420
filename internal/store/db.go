package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/edvin/retailpos/internal/model"
)

// MongoConfig for MongoDB connection
type MongoConfig struct {
	URI       string
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	TLSConfig *tls.Config
	Timeout   time.Duration
}

// ConnectionURI returns the configured URI, or builds one from host/port/credentials.
func (cfg MongoConfig) ConnectionURI() string {
	if cfg.URI != "" {
		return cfg.URI
	}
	if cfg.User != "" && cfg.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s", cfg.Host, cfg.Port)
}

// NewMongoConnection establishes a new MongoDB client connection and pings the primary.
func NewMongoConnection(ctx context.Context, cfg MongoConfig, logger zerolog.Logger) (*mongo.Client, error) {
	connectionTimeout := cfg.Timeout
	if connectionTimeout == 0 {
		connectionTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	logger.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Bool("uri", cfg.URI != "").Msg("connecting to mongodb")

	clientOptions := options.Client().ApplyURI(cfg.ConnectionURI())
	if cfg.TLSConfig != nil {
		clientOptions.SetTLSConfig(cfg.TLSConfig)
	}
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info().Msg("connected to mongodb")
	return client, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, model.ErrInvalid)
	}
	return oid, nil
}
