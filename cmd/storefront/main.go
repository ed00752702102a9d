package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	temporallog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/config"
	"example.com/storefront/internal/landing"
	"example.com/storefront/internal/logging"
	"example.com/storefront/internal/media"
	"example.com/storefront/internal/orders"
	"example.com/storefront/internal/sqliteutil"
	"example.com/storefront/internal/storefront"
)

func main() {
	logger := logging.New()
	cfg, err := config.Load("storefront", os.Args[1:])
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("storefront exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqliteutil.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	source, closeCache, err := openCatalog(ctx, db, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

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

	placer, closePlacer, err := newPlacer(cfg, service, logger)
	if err != nil {
		return err
	}
	defer closePlacer()

	images, err := newImageResolver(cfg, logger)
	if err != nil {
		return err
	}

	serverLogger := logger.With("component", "storefront.http")
	sessions := storefront.NewRegistry(cfg.SessionTTL, nil, logger)
	sessions.StartReaper(ctx, cfg.ReaperInterval)
	srv := storefront.NewServer(storefront.Options{
		Catalog:     source,
		Images:      images,
		Placer:      placer,
		Function:    service,
		Orders:      orderStore,
		Sessions:    sessions,
		BaseContext: ctx,
		Logger:      serverLogger,
	})
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		serverLogger.Info("storefront API listening", "addr", cfg.Addr, "db", cfg.DBPath, "order_mode", cfg.OrderMode, "events", cfg.EventsBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("storefront server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(serverLogger, server, sessions)
	})
	return g.Wait()
}

// openCatalog layers the SQLite store with the demo fallback and, when a
// redis address is configured, the read-through cache. With -seed-demo the
// demo catalog is written to the store first.
func openCatalog(ctx context.Context, db *sql.DB, cfg *config.Config, logger *slog.Logger) (catalog.Source, func(), error) {
	store := catalog.NewStore(db)
	if err := store.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("init catalog schema: %w", err)
	}
	if cfg.SeedDemo {
		if err := catalog.NewDemoProvider().Seed(ctx, store); err != nil {
			return nil, nil, fmt.Errorf("seed demo catalog: %w", err)
		}
		logger.Info("demo catalog seeded", "db", cfg.DBPath)
	}
	var source catalog.Source = store
	if cfg.DemoFallback {
		source = catalog.NewFallbackSource(store, catalog.NewDemoProvider(), logger)
	}
	if cfg.RedisAddr == "" {
		return source, func() {}, nil
	}
	cache, err := catalog.NewRedisCache(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("catalog cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return catalog.NewCachedSource(source, cache, cfg.CacheTTL, logger), func() { cache.Close() }, nil
}

func newPlacer(cfg *config.Config, service *orders.Service, logger *slog.Logger) (checkout.Placer, func(), error) {
	switch cfg.OrderMode {
	case config.OrderModeTemporal:
		c, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalHostPort,
			Namespace: cfg.TemporalNamespace,
			Logger:    temporallog.NewStructuredLogger(logger),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dial temporal: %w", err)
		}
		return orders.NewTemporalPlacer(c, cfg.TaskQueue, logger), c.Close, nil
	case config.OrderModeRemote:
		return orders.NewFunctionClient(cfg.OrderFunctionURL), func() {}, nil
	default:
		return service, func() {}, nil
	}
}

func newImageResolver(cfg *config.Config, logger *slog.Logger) (landing.ImageResolver, error) {
	if cfg.CloudinaryURL == "" {
		return media.Passthrough{}, nil
	}
	cld, err := media.NewCloudinary(cfg.CloudinaryURL, logger.With("component", "media.cloudinary"))
	if err != nil {
		return nil, err
	}
	return cld, nil
}

func shutdown(logger *slog.Logger, server *http.Server, sessions *storefront.Registry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := server.Shutdown(ctx)
	sessions.CloseAll()
	if err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("storefront server stopped")
	return nil
}
