package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporallog "go.temporal.io/sdk/log"
	temporalworker "go.temporal.io/sdk/worker"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/config"
	"example.com/storefront/internal/logging"
	"example.com/storefront/internal/orders"
	"example.com/storefront/internal/sqliteutil"
)

func main() {
	logger := logging.New()
	cfg, err := config.Load("orderworker", os.Args[1:])
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("order worker exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := sqliteutil.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	catalogStore := catalog.NewStore(db)
	if err := catalogStore.Init(ctx); err != nil {
		return fmt.Errorf("init catalog schema: %w", err)
	}
	var source catalog.Source = catalogStore
	if cfg.DemoFallback {
		source = catalog.NewFallbackSource(catalogStore, catalog.NewDemoProvider(), logger)
	}

	orderStore := orders.NewStore(db)
	if err := orderStore.Init(ctx); err != nil {
		return fmt.Errorf("init orders schema: %w", err)
	}
	publisher, err := orders.NewPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	service := orders.NewService(source, orderStore, publisher, orders.Options{BlockedPhones: cfg.BlockedPhones}, logger)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		Logger:    temporallog.NewStructuredLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	w := orders.RegisterOrderWorker(c, cfg.TaskQueue, service, logger)
	logger.Info("order worker polling", "task_queue", cfg.TaskQueue, "temporal", cfg.TemporalHostPort, "namespace", cfg.TemporalNamespace)
	if err := w.Run(temporalworker.InterruptCh()); err != nil {
		return fmt.Errorf("run order worker: %w", err)
	}
	return nil
}
