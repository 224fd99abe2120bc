package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	exampleService "pair-programming-backend/domains/example/application/service"
	notificationService "pair-programming-backend/domains/notification/application/service"
	userService "pair-programming-backend/domains/user/application/service"
	"pair-programming-backend/infrastructure/cloudwatch"
	"pair-programming-backend/infrastructure/govnotify"
	"pair-programming-backend/infrastructure/httpclient"
	"pair-programming-backend/infrastructure/httpmetrics"
	mongoAdapter "pair-programming-backend/infrastructure/mongoDB/adapter"
	mongoConfig "pair-programming-backend/infrastructure/mongoDB/config"
	"pair-programming-backend/infrastructure/mongoDB/store"
	redisAdapter "pair-programming-backend/infrastructure/redis/adapter"
	redisConfig "pair-programming-backend/infrastructure/redis/config"
	"pair-programming-backend/infrastructure/redis/consumer"
	"pair-programming-backend/infrastructure/web"
	"pair-programming-backend/shared/common/config"
	"pair-programming-backend/shared/common/logger"
	"pair-programming-backend/shared/common/metrics"
)

const (
	consumerWorkers   = 4
	consumerBatchSize = 10
	consumerBlockTime = 2 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// application holds the shared clients. mongo is nil for the consumer-only command.
type application struct {
	cfg         *config.AppConfig
	mongo       *mongo.Client
	db          store.Database
	redis       *redis.Client
	emitter     *cloudwatch.Emitter
	promMetrics *httpmetrics.Metrics
	httpClient  *http.Client
}

func newApplication(ctx context.Context, cfg *config.AppConfig, withMongo bool) (*application, error) {
	app := &application{cfg: cfg, promMetrics: httpmetrics.New()}

	var err error
	if app.httpClient, err = httpclient.New(cfg.HTTPProxy, httpclient.DefaultTimeout); err != nil {
		return nil, err
	}
	if app.emitter, err = cloudwatch.NewEmitter(cloudwatch.OptionsFromConfig(cfg)); err != nil {
		return nil, err
	}

	if app.redis, err = redisConfig.NewRedisClient(ctx, cfg); err != nil {
		app.close()
		return nil, err
	}

	if withMongo {
		app.mongo, err = mongoConfig.ConnectMongoDB(ctx, mongoConfig.NewMongoDBConfig(cfg))
		if err != nil {
			app.close()
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		app.db = store.NewDatabase(app.mongo.Database(cfg.MongoDatabase))
		if err := mongoAdapter.EnsureUserIndexes(ctx, app.db); err != nil {
			app.close()
			return nil, err
		}
	}

	return app, nil
}

func (a *application) recorder() metrics.Recorder {
	return metrics.Multi(a.emitter, a.promMetrics)
}

func (a *application) newServer() (*web.Server, error) {
	userRepo := mongoAdapter.NewUserRepositoryPort(a.db)
	exampleRepo := mongoAdapter.NewExampleRepositoryPort(a.db)
	publisher := redisAdapter.NewPairNotificationPublisherPort(a.redis)
	recorder := a.recorder()

	return web.NewServer(a.cfg.Addr(), web.Dependencies{
		Users:   userService.NewUserService(userRepo, recorder),
		Pairing: userService.NewPairingService(userRepo, publisher, recorder),
		Example: exampleService.NewExampleService(
			exampleRepo,
			httpclient.NewHTTPProbePort(a.httpClient),
			a.cfg.LocalstackURL,
		),
		Metrics:       a.promMetrics,
		TracingHeader: a.cfg.TracingHeader,
	})
}

func (a *application) newNotificationConsumer() (*consumer.AbstractConsumer, error) {
	sender, err := govnotify.NewEmailSenderPort(a.httpClient, a.cfg)
	if err != nil {
		return nil, err
	}

	deliver := notificationService.NewPairNotificationService(
		sender,
		redisAdapter.NewNotificationDedupePort(a.redis),
		a.recorder(),
	)

	return consumer.NewAbstractConsumer(
		a.redis,
		redisConfig.PairNotification,
		redisAdapter.NewPairNotificationProcessorAdapter(deliver),
		consumerWorkers,
		consumerBatchSize,
		consumerBlockTime,
	), nil
}

func (a *application) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			logger.Warn("Error disconnecting MongoDB", logger.WithError(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("Error closing Redis", logger.WithError(err))
		}
	}
	if a.emitter != nil {
		if err := a.emitter.Close(); err != nil {
			logger.Warn("Error closing EMF emitter", logger.WithError(err))
		}
	}
}

// waitForSignal blocks until SIGINT/SIGTERM, ctx ends or errCh yields.
func waitForSignal(ctx context.Context, errCh <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", logger.WithString("signal", sig.String()))
		return nil
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
