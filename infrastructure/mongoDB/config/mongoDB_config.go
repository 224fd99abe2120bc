package config

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appConfig "pair-programming-backend/shared/common/config"
	"pair-programming-backend/shared/common/logger"
)

const (
	connectTimeout = 10 * time.Second
	pingMaxElapsed = 30 * time.Second
)

var errInvalidTruststore = errors.New("truststore does not contain a PEM certificate")

type MongoDBConfig struct {
	URL      string
	Database string
	// Truststore names the environment variable that holds a base64 encoded PEM bundle.
	Truststore string
}

func NewMongoDBConfig(cfg *appConfig.AppConfig) *MongoDBConfig {
	return &MongoDBConfig{
		URL:        cfg.MongoURI,
		Database:   cfg.MongoDatabase,
		Truststore: cfg.MongoTruststore,
	}
}

// TLSConfig returns a tls.Config trusting the bundle in the truststore variable,
// or nil when that variable is unset.
func (c *MongoDBConfig) TLSConfig() (*tls.Config, error) {
	if c.Truststore == "" {
		return nil, nil
	}
	encoded := os.Getenv(c.Truststore)
	if encoded == "" {
		return nil, nil
	}

	pem, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.Truststore, err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%s: %w", c.Truststore, errInvalidTruststore)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// ConnectMongoDB opens a client and pings the primary until it answers or the
// retry budget is spent.
func ConnectMongoDB(ctx context.Context, config *MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(config.URL)
	tlsConfig, err := config.TLSConfig()
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		clientOptions.SetTLSConfig(tlsConfig)
		logger.Info("MongoDB truststore loaded", logger.WithString("truststore", config.Truststore))
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = pingMaxElapsed
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return client.Ping(pingCtx, nil)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("MongoDB ping failed, retrying", logger.WithError(err), logger.WithDuration("wait", wait))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB", logger.WithString("database", config.Database))
	return client, nil
}
