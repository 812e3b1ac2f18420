package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ServerTLS builds a *tls.Config for the HTTP listener from TLS_CERT_FILE and
// TLS_KEY_FILE. Returns nil, nil if neither is configured (plaintext mode).
func (c *Config) ServerTLS() (*tls.Config, error) {
	if c.TLSCertFile == "" && c.TLSKeyFile == "" {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load server cert: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// MongoTLS builds a *tls.Config trusting MONGO_TLS_CA_FILE.
// Returns nil, nil if no CA file is configured.
func (c *Config) MongoTLS() (*tls.Config, error) {
	if c.MongoTLSCAFile == "" {
		return nil, nil
	}

	caPEM, err := os.ReadFile(c.MongoTLSCAFile)
	if err != nil {
		return nil, fmt.Errorf("read mongo CA cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("failed to parse mongo CA cert")
	}

	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
