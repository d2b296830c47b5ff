package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/septivank/energy-harmony/internal/config"
	"github.com/septivank/energy-harmony/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const lifecycleTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, if configured, the ingest consumer",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			config.Load,
			newLogger,
			ProvideDBPool,
			ProvideRepository,
			ProvideUsageEngine,
			ProvideSummaryCalculator,
			ProvideUsageQueries,
			ProvideTokenIssuer,
			ProvideAuthService,
			ProvideDeviceService,
			ProvideBudgetService,
			ProvideAnomalyDetector,
			ProvideValidator,
			ProvideMQConnection,
			ProvidePublisher,
			ProvideRecorder,
			ProvideProcessorService,
			ProvideHTTPHandler,
		),
		fx.Invoke(startHTTPServer, startIngestConsumer),
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Fallback logger for errors raised before the real one exists
	startupLogger, _ := logging.NewLogger("energy-harmony", "info")
	startupLogger.Info("starting application...", zap.Duration("timeout", lifecycleTimeout))

	startCtx, startCancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		if startCtx.Err() == context.DeadlineExceeded {
			startupLogger.Error("APPLICATION START TIMEOUT: a dependency (Database or RabbitMQ) is probably not reachable")
		}
		startupLogger.Error("application failed to start", zap.Error(err))
		return err
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		startupLogger.Error("error stopping app", zap.Error(err))
		return err
	}
	return nil
}
