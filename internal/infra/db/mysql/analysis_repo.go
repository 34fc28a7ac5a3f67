package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO idea_analyses
  (id, idea, provider, model, analysis_json, revenue_percentage, report_url, duration_ms, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  analysis_json=VALUES(analysis_json), revenue_percentage=VALUES(revenue_percentage), report_url=VALUES(report_url);
`
	body, err := encodeAnalysis(rec.Analysis)
	if err != nil {
		return err
	}
	var pct int
	if rec.Analysis != nil {
		pct = rec.Analysis.RevenueProbability.Percentage
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, rec.Idea, stringOrDash(rec.Provider), stringOrDash(rec.Model),
		body, pct, rec.ReportURL, rec.DurationMS, createdAt,
	)
	return err
}

// Get returns nil, nil when the id does not exist.
func (r *AnalysisRepository) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT id, idea, provider, model, analysis_json, report_url, duration_ms, created_at
FROM idea_analyses
WHERE id=? LIMIT 1;
`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, idea, provider, model, analysis_json, report_url, duration_ms, created_at
FROM idea_analyses
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*domain.Record, error) {
	var rec domain.Record
	var body string
	if err := s.Scan(&rec.ID, &rec.Idea, &rec.Provider, &rec.Model, &body, &rec.ReportURL, &rec.DurationMS, &rec.CreatedAt); err != nil {
		return nil, err
	}
	a, err := decodeAnalysis(body)
	if err != nil {
		return nil, err
	}
	rec.Analysis = a
	return &rec, nil
}
