package mysql

import (
	"context"
	"database/sql"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS idea_analyses (
  id                 VARCHAR(36)  NOT NULL PRIMARY KEY,
  idea               TEXT         NOT NULL,
  provider           VARCHAR(32)  NOT NULL,
  model              VARCHAR(128) NOT NULL,
  analysis_json      JSON         NOT NULL,
  revenue_percentage INT          NOT NULL,
  report_url         VARCHAR(1024) NOT NULL DEFAULT '',
  duration_ms        BIGINT       NOT NULL,
  created_at         DATETIME(6)  NOT NULL,
  KEY idx_idea_analyses_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, `
CREATE TABLE IF NOT EXISTS idea_analysis_failures (
  id           BIGINT      NOT NULL AUTO_INCREMENT PRIMARY KEY,
  kind         VARCHAR(32) NOT NULL,
  provider     VARCHAR(32) NOT NULL,
  message      TEXT        NOT NULL,
  idea_excerpt TEXT        NOT NULL,
  raw_response MEDIUMTEXT  NOT NULL,
  created_at   DATETIME(6) NOT NULL,
  KEY idx_idea_analysis_failures_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
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
