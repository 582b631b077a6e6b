package main

import (
	"context"
	"net/http"
	"time"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kasirhub/ppob-ledger/internal/api"
	v1 "github.com/kasirhub/ppob-ledger/internal/api/v1"
	apivalidator "github.com/kasirhub/ppob-ledger/internal/api/validator"
	"github.com/kasirhub/ppob-ledger/internal/config"
	apierrors "github.com/kasirhub/ppob-ledger/internal/errors"
	"github.com/kasirhub/ppob-ledger/internal/metrics"
	"github.com/kasirhub/ppob-ledger/internal/publishers"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/kasirhub/ppob-ledger/internal/service"
	"github.com/kasirhub/ppob-ledger/pkg/mq"
	"github.com/kasirhub/ppob-ledger/pkg/mysql"
	"github.com/kasirhub/ppob-ledger/pkg/settlement"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectInterval = 15 * time.Second

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,
			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,
			NewFiberApp,
			NewValidator,

			repository.NewTransactionManager,
			repository.NewUserRepository,
			repository.NewProductRepository,
			repository.NewCategoryRepository,
			repository.NewTransactionRepository,
			repository.NewBalanceLogRepository,

			NewSettlementProvider,
			publishers.NewActivityPublisher,
			service.NewCategoryResolver,
			service.NewLedgerService,
			service.NewTransactionService,
			service.NewBalanceService,

			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger,
	m *metrics.Metrics, db *gorm.DB, rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, handler)

	systemCollector := metrics.NewSystemCollector(m, logger)
	dbCollector := metrics.NewDatabaseStatsCollector(m, logger, db)

	metricsServer := &http.Server{Addr: cfg.Metrics.Port, Handler: promhttp.Handler()}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.ActivityQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			systemCollector.Start(collectInterval)
			dbCollector.Start(collectInterval)

			go func() {
				if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("metrics server exited", zap.Error(err))
				}
			}()

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("api server exited", zap.Error(err))
				}
			}()

			logger.Info("api server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			systemCollector.Stop()
			dbCollector.Stop()

			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", zap.Error(err))
			}
			if err := rabbit.Close(); err != nil {
				logger.Warn("rabbitmq close failed", zap.Error(err))
			}

			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apierrors.ErrorHandler()})
}

func NewValidator(m *metrics.Metrics) apivalidator.IXValidator {
	return apivalidator.NewXValidator(playgroundvalidator.New(), m)
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewSettlementProvider(cfg *config.Config) settlement.Provider {
	return settlement.NewSimulatedProvider(cfg.Settlement)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.MQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
