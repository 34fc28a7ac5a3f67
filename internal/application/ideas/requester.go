package ideas

import (
	"context"
	"errors"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

// Requester sends one idea to the remote model and returns the parsed Analysis.
// It holds no mutable state and is safe for concurrent use.
type Requester struct {
	gen domain.Generator
}

func NewRequester(gen domain.Generator) *Requester {
	return &Requester{gen: gen}
}

// RequestAnalysis issues exactly one remote call: no retry, no cache. Failures are
// classified as ErrServiceUnavailable (call failed) or ErrMalformedResponse (output
// did not fit the schema).
func (r *Requester) RequestAnalysis(ctx context.Context, idea domain.Idea) (*domain.Analysis, error) {
	raw, err := r.gen.Generate(ctx, idea.String())
	if err != nil {
		var ae *domain.AnalysisError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, &domain.AnalysisError{Kind: domain.ErrServiceUnavailable, Err: err}
	}
	return domain.ParseAnalysis(raw)
}
