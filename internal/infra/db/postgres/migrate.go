package postgres

import (
	"context"
	"database/sql"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS idea_analyses (
  id                 TEXT        PRIMARY KEY,
  idea               TEXT        NOT NULL,
  provider           TEXT        NOT NULL,
  model              TEXT        NOT NULL,
  analysis_json      JSONB       NOT NULL,
  revenue_percentage INTEGER     NOT NULL,
  report_url         TEXT        NOT NULL DEFAULT '',
  duration_ms        BIGINT      NOT NULL,
  created_at         TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_idea_analyses_created ON idea_analyses (created_at DESC);`, `
CREATE TABLE IF NOT EXISTS idea_analysis_failures (
  id           BIGSERIAL   PRIMARY KEY,
  kind         TEXT        NOT NULL,
  provider     TEXT        NOT NULL,
  message      TEXT        NOT NULL,
  idea_excerpt TEXT        NOT NULL,
  raw_response TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_idea_analysis_failures_created ON idea_analysis_failures (created_at DESC);`,
}

// Migrate creates the history tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
