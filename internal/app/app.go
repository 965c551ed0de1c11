// Package app assembles and runs a record API process.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	"recordapi/internal/config"
	"recordapi/internal/http/handler"
	"recordapi/internal/http/middleware"
	"recordapi/internal/logging"
	tracing "recordapi/internal/otel"
	"recordapi/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServer builds the Fiber app for svc on an already connected store.
// reg receives the HTTP metrics and backs /metrics.
func NewServer(svc Service, client *store.Client, reg *prometheus.Registry, docs *swag.Spec, logger *zap.Logger) (*fiber.App, error) {
	prom, err := middleware.NewPrometheusMiddleware(reg, svc.Name)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               svc.Name,
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logger))
	app.Use(prom.Handler())

	handler.RegisterOps(app, client, reg, docs)
	if err := svc.Mount(app, client, logger); err != nil {
		return nil, fmt.Errorf("mount %s routes: %w", svc.Collection, err)
	}
	return app, nil
}

// Run loads configuration from the environment, connects the store and serves
// svc until SIGINT or SIGTERM.
func Run(svc Service, docs *swag.Spec) error {
	cfg := config.Load().WithDatabaseDefault(svc.Database)

	logger, err := logging.New(cfg.Log.Level, logging.Location(cfg.Log.Timezone))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("service", svc.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, svc.Name, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	client, err := store.Connect(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("connect %s store: %w", cfg.Store.Driver, err)
	}
	if err := client.EnsureCollections(ctx, svc.Collection); err != nil {
		client.Close(context.Background())
		return fmt.Errorf("prepare collection %s: %w", svc.Collection, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := NewServer(svc, client, reg, docs, logger)
	if err != nil {
		client.Close(context.Background())
		return err
	}

	addr := ":" + cfg.Port
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()
	logger.Info("server_started",
		zap.String("addr", addr),
		zap.String("store_driver", client.Driver()),
		zap.String("collection", svc.Collection),
	)

	var runErr error
	select {
	case err := <-listenErr:
		runErr = fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown_started")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := []error{runErr}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stop http server: %w", err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("flush traces: %w", err))
	}
	if err := client.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	err = errors.Join(errs...)
	if err != nil {
		logger.Error("shutdown_failed", zap.Error(err))
		return err
	}
	logger.Info("shutdown_complete")
	return nil
}
