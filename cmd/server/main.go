package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/service"
	"github.com/ashwinkp/creditflow/internal/config"
	"github.com/ashwinkp/creditflow/internal/infrastructure/persistence/repository"
	"github.com/ashwinkp/creditflow/internal/infrastructure/worker"
	httpserver "github.com/ashwinkp/creditflow/internal/interfaces/http"
	"github.com/ashwinkp/creditflow/internal/optimizer"
	"github.com/ashwinkp/creditflow/pkg/database"
	"github.com/ashwinkp/creditflow/pkg/utils"
)

func main() {
	// Local overrides from .env, if present.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting CreditFlow payment engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	for _, dir := range []string{filepath.Dir(cfg.Database.Path), cfg.Report.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	supplierRepo := repository.NewSupplierRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	paymentRepo := repository.NewPaymentRepository(db.DB, logger)
	alertRepo := repository.NewAlertRepository(db.DB, logger)
	profileRepo := repository.NewProfileRepository(db.DB, logger)
	txManager := repository.NewTxManager(db)

	// Services
	svcLogger := &zapLoggerAdapter{logger: logger}
	supplierService := service.NewSupplierService(supplierRepo, svcLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, supplierRepo, alertRepo, svcLogger)
	paymentService := service.NewPaymentService(invoiceRepo, paymentRepo, profileRepo, txManager, svcLogger)
	planExporter := optimizer.NewReportWriter(logger)
	optimizerService := service.NewOptimizerService(invoiceRepo, supplierRepo, profileRepo, planExporter, svcLogger)
	insightService := service.NewInsightService(invoiceRepo, supplierRepo, paymentRepo, profileRepo, svcLogger)
	seedService := service.NewSeedService(supplierService, invoiceService, supplierRepo, profileRepo, svcLogger)

	// Background workers
	workerManager := worker.NewManager(logger)
	workerManager.Register(worker.NewAlertPoller(
		alertRepo,
		invoiceRepo,
		cfg.Alerts.PollInterval,
		cfg.Alerts.BatchSize,
		logger,
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}
	logger.Info("Background workers running", zap.Int("count", workerManager.Count()))

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		httpserver.Services{
			Supplier:  supplierService,
			Invoice:   invoiceService,
			Payment:   paymentService,
			Optimizer: optimizerService,
			Insight:   insightService,
			Seed:      seedService,
		},
		cfg.Report.OutputDir,
		svcLogger,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	cancel()
	workerManager.StopAll()
	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// zapLoggerAdapter adapts zap.Logger to the leveled key-value Logger
// interfaces consumed by the service and HTTP layers.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, toZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toZapFields(keysAndValues...)...)
}

func toZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
