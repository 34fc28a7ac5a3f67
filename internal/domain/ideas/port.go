package ideas

import "context"

// Generator is the remote model boundary: one structured-output call per idea,
// returning the raw response text.
type Generator interface {
	Generate(ctx context.Context, idea string) (string, error)
	Provider() string
	Model() string
}

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id RecordID) (*Record, error)
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
}

// FailureLog persists failed requests for diagnostics.
type FailureLog interface {
	Save(ctx context.Context, f *Failure) error
	Recent(ctx context.Context, limit int) ([]*Failure, error)
}

// ReportStore archives rendered reports and returns their URL.
type ReportStore interface {
	Put(ctx context.Context, key string, body []byte) (string, error)
}
