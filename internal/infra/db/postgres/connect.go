package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates tables if missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_status (
  startup_id            VARCHAR(64) PRIMARY KEY,
  tenant_id             VARCHAR(64)  NOT NULL,
  startup_name          VARCHAR(255) NOT NULL,
  processing_status     VARCHAR(32)  NOT NULL,
  webhook_triggered_at  TIMESTAMPTZ  NOT NULL,
  analysis_completed_at TIMESTAMPTZ  NULL
);`,
		`CREATE TABLE IF NOT EXISTS analysis_fallbacks (
  id           VARCHAR(64) PRIMARY KEY,
  tenant_id    VARCHAR(64)  NOT NULL,
  startup_id   VARCHAR(64)  NOT NULL,
  startup_name VARCHAR(255) NOT NULL,
  payload_json JSONB,
  reason       VARCHAR(32),
  saved_at     TIMESTAMPTZ  NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS analysis_fallbacks_tenant_saved_idx ON analysis_fallbacks (tenant_id, saved_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
