package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO idea_analysis_failures
  (kind, provider, message, idea_excerpt, raw_response, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return r.db.QueryRowContext(ctx, q,
		stringOrDash(f.Kind), stringOrDash(f.Provider), stringOrDash(f.Message),
		f.IdeaExcerpt, f.RawResponse, created,
	).Scan(&f.ID)
}

func (r *FailureRepository) Recent(ctx context.Context, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, kind, provider, message, idea_excerpt, raw_response, created_at
FROM idea_analysis_failures
ORDER BY created_at DESC, id DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		if err := rows.Scan(&f.ID, &f.Kind, &f.Provider, &f.Message, &f.IdeaExcerpt, &f.RawResponse, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
