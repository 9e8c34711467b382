package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-leavedesk/internal/leavesummary"
	"go-leavedesk/internal/leavetype"
	"go-leavedesk/internal/messaging/kafka/consumer"
	"go-leavedesk/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer listens for employee lifecycle events and backfills the
// ledger rows of newly onboarded employees.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveSummaryRepo := leavesummary.NewRepository(gormDB)
	leaveSummaryService := leavesummary.NewService(
		gormDB,
		leaveSummaryRepo,
		&leaveTypeSeedSource{repo: leaveTypeRepo},
		nil,
		leavesummary.Config{},
	)

	lifecycleConsumer := consumer.NewEmployeeLifecycleConsumer(
		strings.Split(kafkaBroker, ","),
		"go-leavedesk-summary-init",
		leaveSummaryService,
		logger,
	)
	defer lifecycleConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go lifecycleConsumer.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
