package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// stepsFor returns the DDL that backs one document collection.
// table must already be a validated identifier.
func stepsFor(table string) []migrationStep {
	return []migrationStep{
		{
			Name: "create_table_" + table,
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id         UUID        PRIMARY KEY,
  doc        JSONB       NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`, table),
		},
		{
			Name: "create_index_" + table + "_created_at",
			SQL:  fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at);`, table, table),
		},
	}
}

// EnsureCollections creates the table for every collection that does not exist yet.
func EnsureCollections(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string, tables ...string) error {
	logger = logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	for _, table := range tables {
		if err := ensureTable(ctx, db, logger, table); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(ctx context.Context, db *sql.DB, logger *zap.Logger, table string) error {
	start := time.Now()
	log := logger.With(zap.String("collection", table))
	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check table %s: %w", table, err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	for _, step := range stepsFor(table) {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
