package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPListenAddr string
	LogLevel       string
	LogFile        string
	CORSOrigins    []string
	DevMode        bool
	TLSCertFile    string
	TLSKeyFile     string

	MongoURI       string
	MongoTLSCAFile string
	MongoHost      string
	MongoPort      string
	MongoUser      string
	MongoPassword  string
	MongoDBName    string

	StripeSecretKey  string
	StripeLocationID string
	Currency         string

	GHLClientID     string
	GHLClientSecret string
	GHLRedirectURI  string
	GHLLocationID   string
	GHLAPIURL       string
	GHLAPIVersion   string
	GHLTokenFile    string

	SnapshotFile     string
	SnapshotS3Bucket string
	SnapshotS3Key    string
	S3Endpoint       string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string

	RedisAddr            string
	CatalogCacheTTL      time.Duration
	SnapshotSyncSchedule string
	TokenRefreshSchedule string
}

func Load() (*Config, error) {
	origins := getEnv("CORS_ORIGINS", "http://localhost:3000")
	var corsList []string
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			corsList = append(corsList, trimmed)
		}
	}

	ttl, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("parse CATALOG_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ":4242"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		CORSOrigins:    corsList,
		DevMode:        getEnv("DEV_MODE", "") == "true",
		TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),

		MongoURI:       getEnv("MONGO_URI", ""),
		MongoTLSCAFile: getEnv("MONGO_TLS_CA_FILE", ""),
		MongoHost:      getEnv("MONGO_HOST", "localhost"),
		MongoPort:      getEnv("MONGO_PORT", "27017"),
		MongoUser:      getEnv("MONGO_USER", ""),
		MongoPassword:  getEnv("MONGO_PASSWORD", ""),
		MongoDBName:    getEnv("MONGO_DBNAME", "pos"),

		StripeSecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
		StripeLocationID: getEnv("STRIPE_LOCATION_ID", ""),
		Currency:         strings.ToLower(getEnv("CURRENCY", "usd")),

		GHLClientID:     getEnv("GHL_CLIENT_ID", ""),
		GHLClientSecret: getEnv("GHL_CLIENT_SECRET", ""),
		GHLRedirectURI:  getEnv("GHL_REDIRECT_URI", ""),
		GHLLocationID:   getEnv("GHL_LOCATION_ID", ""),
		GHLAPIURL:       strings.TrimRight(getEnv("GHL_API_URL", "https://services.leadconnectorhq.com"), "/"),
		GHLAPIVersion:   getEnv("GHL_API_VERSION", "2021-07-28"),
		GHLTokenFile:    getEnv("GHL_TOKEN_FILE", "tokens.json"),

		SnapshotFile:     getEnv("SNAPSHOT_FILE", "inventory.json"),
		SnapshotS3Bucket: getEnv("SNAPSHOT_S3_BUCKET", ""),
		SnapshotS3Key:    getEnv("SNAPSHOT_S3_KEY", "inventory.json"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		CatalogCacheTTL:      ttl,
		SnapshotSyncSchedule: getEnv("SNAPSHOT_SYNC_SCHEDULE", "@every 15m"),
		TokenRefreshSchedule: getEnv("TOKEN_REFRESH_SCHEDULE", "@every 6h"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoDBName == "" {
		return fmt.Errorf("missing required config: MONGO_DBNAME")
	}
	if c.MongoURI == "" && c.MongoHost == "" {
		return fmt.Errorf("missing required config: MONGO_URI or MONGO_HOST")
	}

	ghl := []string{c.GHLClientID, c.GHLClientSecret, c.GHLRedirectURI}
	set := 0
	for _, v := range ghl {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(ghl) {
		return fmt.Errorf("GHL_CLIENT_ID, GHL_CLIENT_SECRET and GHL_REDIRECT_URI must be set together")
	}

	if c.SnapshotS3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("SNAPSHOT_S3_BUCKET requires S3_ACCESS_KEY and S3_SECRET_KEY")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must both be set")
	}
	if c.CatalogCacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be positive")
	}
	return nil
}

// GHLEnabled reports whether the GHL OAuth app credentials are configured.
func (c *Config) GHLEnabled() bool {
	return c.GHLClientID != ""
}

// StripeEnabled reports whether a Stripe secret key is configured.
func (c *Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}

// StripeTestMode reports whether the configured Stripe key is a test-mode key.
func (c *Config) StripeTestMode() bool {
	return strings.HasPrefix(c.StripeSecretKey, "sk_test_") || strings.HasPrefix(c.StripeSecretKey, "rk_test_")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
