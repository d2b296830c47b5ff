package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/septivank/energy-harmony/internal/anomaly"
	"github.com/septivank/energy-harmony/internal/auth"
	"github.com/septivank/energy-harmony/internal/config"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/logging"
	"github.com/septivank/energy-harmony/internal/mq"
	"github.com/septivank/energy-harmony/internal/repository"
	"github.com/septivank/energy-harmony/internal/service"
	httpserver "github.com/septivank/energy-harmony/internal/transport/http"
	"github.com/septivank/energy-harmony/internal/usage"
	"github.com/septivank/energy-harmony/internal/validator"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
}

// ProvideDBPool creates a new database pool instance
func ProvideDBPool(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*db.Pool, error) {
	return db.NewPool(lc, logger, cfg.Database.URL)
}

// ProvideRepository creates a new repository instance
func ProvideRepository(pool *db.Pool) *repository.Repository {
	return repository.NewRepository(pool)
}

// ProvideUsageEngine creates the rollup engine over the usage table
func ProvideUsageEngine(repo *repository.Repository, cfg *config.Config) *usage.Engine {
	return usage.NewEngine(repo, cfg.Usage.Location, usage.SystemClock)
}

// ProvideSummaryCalculator creates the summary calculator over the usage table
func ProvideSummaryCalculator(repo *repository.Repository, cfg *config.Config) *usage.Calculator {
	return usage.NewCalculator(repo, cfg.Usage.Location)
}

// ProvideUsageQueries creates the dashboard query service
func ProvideUsageQueries(engine *usage.Engine, calc *usage.Calculator) *service.UsageQueries {
	return service.NewUsageQueries(engine, calc, usage.SystemClock)
}

// ProvideTokenIssuer creates the bearer token issuer
func ProvideTokenIssuer(cfg *config.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

// ProvideAuthService creates the register/login service
func ProvideAuthService(repo *repository.Repository, tokens *auth.TokenIssuer, logger *zap.Logger) *service.AuthService {
	return service.NewAuthService(repo, tokens, logger)
}

// ProvideDeviceService creates the device service
func ProvideDeviceService(repo *repository.Repository) *service.DeviceService {
	return service.NewDeviceService(repo)
}

// ProvideBudgetService creates the budget service
func ProvideBudgetService(repo *repository.Repository) *service.BudgetService {
	return service.NewBudgetService(repo)
}

// ProvideAnomalyDetector creates a new anomaly detector instance
func ProvideAnomalyDetector(cfg *config.Config) *anomaly.Detector {
	return anomaly.NewDetector(cfg.Anomaly.SpikeThreshold, cfg.Anomaly.MinDataPointsForDetection)
}

// ProvideValidator creates a new validator instance
func ProvideValidator(cfg *config.Config) *validator.Validator {
	return validator.NewValidator(cfg.Validation.TimestampToleranceMinutes, cfg.Validation.MaxUsageKWh)
}

// ProvideMQConnection connects to RabbitMQ. Returns nil when no broker is configured.
func ProvideMQConnection(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Connection, error) {
	if !cfg.RabbitMQ.Enabled() {
		logger.Info("RABBITMQ_URL not set, messaging disabled")
		return nil, nil
	}
	return mq.NewConnection(lc, logger, cfg.RabbitMQ.URL)
}

// ProvidePublisher creates the usage event publisher, or a no-op one without a broker
func ProvidePublisher(lc fx.Lifecycle, conn *mq.Connection, cfg *config.Config, logger *zap.Logger) (service.EventPublisher, error) {
	if conn == nil {
		return mq.NopPublisher{}, nil
	}

	publisher, err := mq.NewPublisher(conn, cfg.RabbitMQ.EventsExchange, cfg.RabbitMQ.EventsRoutingKey, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// ProvideRecorder creates the sample recorder shared by HTTP and the ingest queue
func ProvideRecorder(
	repo *repository.Repository,
	publisher service.EventPublisher,
	detector *anomaly.Detector,
	validator *validator.Validator,
	cfg *config.Config,
	logger *zap.Logger,
) *service.Recorder {
	return service.NewRecorder(service.RecorderConfig{
		Samples:       repo,
		Devices:       repo,
		Publisher:     publisher,
		Validator:     validator,
		Detector:      detector,
		HistoryWindow: cfg.Anomaly.HistoryWindow,
		Clock:         usage.SystemClock,
		Logger:        logger,
	})
}

// ProvideProcessorService creates a new processor service instance
func ProvideProcessorService(recorder *service.Recorder, logger *zap.Logger) *service.ProcessorService {
	return service.NewProcessorService(recorder, logger)
}

// ProvideHTTPHandler wires the services into the REST API
func ProvideHTTPHandler(
	authSvc *service.AuthService,
	tokens *auth.TokenIssuer,
	queries *service.UsageQueries,
	recorder *service.Recorder,
	devices *service.DeviceService,
	budgets *service.BudgetService,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	return httpserver.New(httpserver.Deps{
		Auth:           authSvc,
		Tokens:         tokens,
		Usage:          queries,
		Recorder:       recorder,
		Devices:        devices,
		Budgets:        budgets,
		Logger:         logger,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
}

func startHTTPServer(lc fx.Lifecycle, handler http.Handler, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", cfg.HTTP.Addr)
			if err != nil {
				return err
			}
			logger.Info("HTTP listening", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down HTTP")
			return srv.Shutdown(ctx)
		},
	})
}

func startIngestConsumer(
	lc fx.Lifecycle,
	conn *mq.Connection,
	cfg *config.Config,
	logger *zap.Logger,
	processor *service.ProcessorService,
) error {
	if conn == nil {
		return nil
	}

	// Cancelled on shutdown
	ctx, cancel := context.WithCancel(context.Background())

	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		Connection:       conn,
		Queue:            cfg.RabbitMQ.IngestQueue,
		DLQQueue:         cfg.RabbitMQ.DLQQueue,
		Exchange:         cfg.RabbitMQ.IngestExchange,
		RoutingKey:       cfg.RabbitMQ.IngestRoutingKey,
		PrefetchCount:    cfg.RabbitMQ.PrefetchCount,
		Logger:           logger,
		MessageProcessor: processor.ProcessMessage,
	})
	if err != nil {
		cancel()
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting ingest consumer",
				zap.String("queue", cfg.RabbitMQ.IngestQueue),
				zap.Int("prefetch", cfg.RabbitMQ.PrefetchCount))
			return consumer.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			if err := consumer.Close(); err != nil {
				logger.Error("failed to close consumer", zap.Error(err))
				return err
			}
			logger.Info("ingest consumer stopped gracefully")
			return nil
		},
	})

	return nil
}
