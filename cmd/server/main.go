package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Jackela/catams/internal/application/service"
	"github.com/Jackela/catams/internal/config"
	"github.com/Jackela/catams/internal/domain/workflow"
	"github.com/Jackela/catams/internal/infrastructure/persistence/repository"
	"github.com/Jackela/catams/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/Jackela/catams/internal/interfaces/http"
	"github.com/Jackela/catams/pkg/database"
	"github.com/Jackela/catams/pkg/utils"
)

func main() {
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

	logger.Info("Starting CATAMS timesheet approval service",
		zap.Int("port", cfg.Server.Port))

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
	if err := migrator.Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// The rule table is built once and injected everywhere; it is the single
	// source of truth for the approval workflow.
	rules := workflow.NewRules()
	if problems := rules.Validate(); len(problems) > 0 {
		logger.Fatal("Workflow rule table is inconsistent", zap.Strings("problems", problems))
	}
	domainService := workflow.NewService(rules)

	timesheetRepo := repository.NewTimesheetRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	courseRepo := repository.NewCourseRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)

	serviceLogger := &zapLoggerAdapter{logger: logger}
	approvalService := service.NewApprovalService(
		timesheetRepo, userRepo, courseRepo, approvalRepo, txManager, domainService, serviceLogger)
	timesheetService := service.NewTimesheetService(
		timesheetRepo, userRepo, courseRepo, domainService, serviceLogger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, approvalService, timesheetService, serviceLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
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
