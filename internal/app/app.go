// Package app wires the configured stores, integrations and services into a
// running point-of-sale backend. Both pos-api and posctl build on it.
package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/edvin/retailpos/internal/api"
	"github.com/edvin/retailpos/internal/cache"
	"github.com/edvin/retailpos/internal/config"
	"github.com/edvin/retailpos/internal/core"
	"github.com/edvin/retailpos/internal/events"
	"github.com/edvin/retailpos/internal/ghl"
	"github.com/edvin/retailpos/internal/seed"
	"github.com/edvin/retailpos/internal/snapshot"
	"github.com/edvin/retailpos/internal/store"
	"github.com/edvin/retailpos/internal/terminal"
)

// Integrations holds the optional external systems. Unconfigured ones are nil.
type Integrations struct {
	OAuth    *ghl.OAuth
	Catalog  *ghl.Client
	Snapshot core.SnapshotStore
	Stripe   *terminal.Stripe
}

// NewIntegrations builds the integrations enabled by cfg. It does no network I/O.
func NewIntegrations(cfg *config.Config, logger zerolog.Logger) *Integrations {
	in := &Integrations{}

	if cfg.GHLEnabled() {
		in.OAuth = ghl.NewOAuth(ghl.OAuthConfig{
			ClientID:     cfg.GHLClientID,
			ClientSecret: cfg.GHLClientSecret,
			RedirectURI:  cfg.GHLRedirectURI,
		}, ghl.NewFileTokenStore(cfg.GHLTokenFile), logger)
		in.Catalog = ghl.NewClient(cfg.GHLAPIURL, cfg.GHLAPIVersion, cfg.GHLLocationID, in.OAuth, logger)
	}

	switch {
	case cfg.SnapshotS3Bucket != "":
		in.Snapshot = snapshot.NewS3Store(snapshot.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.SnapshotS3Bucket,
			Key:       cfg.SnapshotS3Key,
		})
	case cfg.SnapshotFile != "":
		in.Snapshot = snapshot.NewFileStore(cfg.SnapshotFile)
	}

	if cfg.StripeEnabled() {
		in.Stripe = terminal.New(cfg.StripeSecretKey, nil)
	}
	return in
}

// Dependencies converts the integrations into service dependencies. Interface
// fields stay untyped nil for anything unconfigured.
func (in *Integrations) Dependencies(cfg *config.Config) core.Dependencies {
	deps := core.Dependencies{
		Snapshot:         in.Snapshot,
		Currency:         cfg.Currency,
		StripeLocationID: cfg.StripeLocationID,
		StripeTestMode:   cfg.StripeTestMode(),
	}
	if in.Catalog != nil {
		deps.Catalog = in.Catalog
	}
	if in.Stripe != nil {
		deps.Stripe = in.Stripe
	}
	return deps
}

// Application is a connected backend.
type Application struct {
	cfg    *config.Config
	logger zerolog.Logger

	mongo *mongo.Client
	redis *redis.Client

	Integrations *Integrations
	Folders      *store.FolderStore
	Products     *store.ProductStore
	Payments     *store.PaymentStore
	Services     *core.Services
	Events       *events.Hub
}

// New connects to MongoDB (and Redis when configured), ensures indexes and the
// default folder, and builds the services.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	mongoTLS, err := cfg.MongoTLS()
	if err != nil {
		return nil, err
	}
	client, err := store.NewMongoConnection(ctx, store.MongoConfig{
		URI:       cfg.MongoURI,
		Host:      cfg.MongoHost,
		Port:      cfg.MongoPort,
		User:      cfg.MongoUser,
		Password:  cfg.MongoPassword,
		DBName:    cfg.MongoDBName,
		TLSConfig: mongoTLS,
	}, logger)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:          cfg,
		logger:       logger,
		mongo:        client,
		Integrations: NewIntegrations(cfg, logger),
		Events:       events.NewHub(OriginPatterns(cfg.CORSOrigins), logger),
	}

	db := client.Database(cfg.MongoDBName)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		a.Close(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	a.Folders = store.NewFolderStore(db)
	a.Products = store.NewProductStore(db)
	a.Payments = store.NewPaymentStore(db)

	deps := a.Integrations.Dependencies(cfg)
	deps.Products = a.Products
	deps.Folders = a.Folders
	deps.Payments = a.Payments
	deps.Events = a.Events

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			// The cache is an optimization; run without it.
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, catalog cache disabled")
		} else {
			a.redis = rdb
			deps.Cache = cache.NewRedisCatalog(rdb, cfg.CatalogCacheTTL)
		}
	}

	a.Services = core.NewServices(deps, logger)

	if _, err := a.Services.Folder.EnsureDefaultFolders(ctx); err != nil {
		a.Close(context.Background())
		return nil, fmt.Errorf("ensure default folder: %w", err)
	}
	return a, nil
}

// Seeder returns a seeder writing to the application's stores.
func (a *Application) Seeder() *seed.Seeder {
	return seed.NewSeeder(a.Folders, a.Products, a.Services.Folder, a.logger)
}

// ServerOptions returns the HTTP server collaborators, including readiness checks.
func (a *Application) ServerOptions() api.Options {
	opts := api.Options{
		Events: a.Events,
		Checks: map[string]api.ReadyCheck{
			"mongodb": func(ctx context.Context) error {
				return a.mongo.Ping(ctx, readpref.Primary())
			},
		},
	}
	if a.Integrations.OAuth != nil {
		opts.OAuth = a.Integrations.OAuth
	}
	if a.redis != nil {
		opts.Checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	return opts
}

func (a *Application) Close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close redis")
		}
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("disconnect mongodb")
	}
}

// OriginPatterns converts CORS origins into host patterns for the websocket
// origin check.
func OriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			patterns = append(patterns, o)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
