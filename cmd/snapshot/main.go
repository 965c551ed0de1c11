// Command snapshot exports the configured collections to object storage as
// JSON arrays and logs a presigned download link for each export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"recordapi/internal/app"
	"recordapi/internal/config"
	"recordapi/internal/logging"
	tracing "recordapi/internal/otel"
	"recordapi/internal/storage"
	"recordapi/internal/store"
)

func main() {
	expiry := flag.Duration("link-expiry", 24*time.Hour, "validity of the presigned download links")
	flag.Parse()

	if err := run(*expiry); err != nil {
		log.Fatalf("snapshot: %v", err)
	}
}

func run(expiry time.Duration) error {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Level, logging.Location(cfg.Log.Timezone))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "snapshot", logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	objs, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	at := time.Now()
	var errs []error
	for _, name := range cfg.Snapshots {
		if err := export(ctx, *cfg, name, objs, at, expiry, logger); err != nil {
			logger.Error("snapshot_failed", zap.String("collection", name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// export snapshots one collection. Each collection is read from its own
// service's database unless the environment names one explicitly.
func export(ctx context.Context, cfg config.AppConfig, name string, objs storage.Storage, at time.Time, expiry time.Duration, logger *zap.Logger) error {
	svc, ok := app.ByCollection(name)
	if !ok {
		return fmt.Errorf("unknown collection %q", name)
	}
	cfg.WithDatabaseDefault(svc.Database)

	client, err := store.Connect(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("connect %s store: %w", cfg.Store.Driver, err)
	}
	defer client.Close(context.Background())

	info, err := svc.Snapshot(ctx, client, objs, at)
	if err != nil {
		return err
	}

	link, err := objs.PresignGet(ctx, info.Key, expiry)
	if err != nil {
		return fmt.Errorf("presign %s: %w", info.Key, err)
	}
	logger.Info("snapshot_exported",
		zap.String("collection", name),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size),
		zap.String("etag", info.ETag),
		zap.String("url", link),
		zap.Duration("url_expiry", expiry),
	)
	return nil
}
