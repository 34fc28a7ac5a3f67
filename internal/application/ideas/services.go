package ideas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/idea-coach/internal/application"
	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

const (
	persistTimeout = 10 * time.Second
	excerptRunes   = 200
)

// Service implements the idea-analysis use-cases. Repo, Failures and Reports are
// optional; nil disables the matching side effect.
// Service is safe for concurrent use.
type Service struct {
	Requester *Requester
	Generator domain.Generator
	Repo      domain.Repository
	Failures  domain.FailureLog
	Reports   domain.ReportStore
	Clock     application.Clock
	Logger    *slog.Logger
}

func NewService(gen domain.Generator) *Service {
	return &Service{
		Requester: NewRequester(gen),
		Generator: gen,
		Clock:     application.SystemClock{},
		Logger:    slog.Default(),
	}
}

//
// ==== USE CASES ====
//

// Analyze validates the idea locally, requests the analysis and records the result.
// An empty idea never reaches the remote model.
func (s *Service) Analyze(ctx context.Context, text string) (*domain.Record, error) {
	idea, err := domain.NewIdea(text)
	if err != nil {
		return nil, err
	}

	start := s.Clock.Now()
	analysis, err := s.Requester.RequestAnalysis(ctx, idea)
	elapsed := s.Clock.Now().Sub(start)
	if err != nil {
		s.recordFailure(ctx, idea, err)
		return nil, err
	}

	rec := &domain.Record{
		ID:         domain.RecordID(uuid.New().String()),
		Idea:       idea.String(),
		Provider:   s.Generator.Provider(),
		Model:      s.Generator.Model(),
		Analysis:   analysis,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  start,
	}
	s.Logger.InfoContext(ctx, "analysis completed",
		"id", rec.ID,
		"provider", rec.Provider,
		"model", rec.Model,
		"duration_ms", rec.DurationMS,
		"revenue_percentage", analysis.RevenueProbability.Percentage,
	)

	s.persist(ctx, rec)
	return rec, nil
}

// persist archives and stores rec. Failures are logged; the analysis is already done.
func (s *Service) persist(ctx context.Context, rec *domain.Record) {
	if s.Reports == nil && s.Repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if s.Reports != nil {
		body, err := json.Marshal(rec)
		if err == nil {
			var url string
			url, err = s.Reports.Put(ctx, ReportKey(rec), body)
			rec.ReportURL = url
		}
		if err != nil {
			s.Logger.WarnContext(ctx, "report archive failed", "id", rec.ID, "error", err)
		}
	}

	if s.Repo != nil {
		if err := s.Repo.Save(ctx, rec); err != nil {
			s.Logger.WarnContext(ctx, "analysis save failed", "id", rec.ID, "error", err)
		}
	}
}

func (s *Service) recordFailure(ctx context.Context, idea domain.Idea, err error) {
	kind := domain.KindOf(err)
	raw := domain.RawResponse(err)
	s.Logger.ErrorContext(ctx, "analysis failed",
		"kind", kind,
		"provider", s.Generator.Provider(),
		"error", err,
		"raw_bytes", len(raw),
	)
	if s.Failures == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	f := &domain.Failure{
		Kind:        kind,
		Provider:    s.Generator.Provider(),
		Message:     err.Error(),
		IdeaExcerpt: excerpt(idea.String(), excerptRunes),
		RawResponse: raw,
		CreatedAt:   s.Clock.Now(),
	}
	if serr := s.Failures.Save(ctx, f); serr != nil {
		s.Logger.WarnContext(ctx, "failure log save failed", "error", serr)
	}
}

// Get returns a stored analysis.
func (s *Service) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// List returns one page of stored analyses, newest first.
func (s *Service) List(ctx context.Context, page, pageSize int) (*domain.Page, error) {
	if s.Repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	data, err := s.Repo.Paginate(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []*domain.Record{}
	}
	return &domain.Page{Data: data, Page: page, PageSize: pageSize}, nil
}

// RecentFailures returns the latest failure log entries.
func (s *Service) RecentFailures(ctx context.Context, limit int) ([]*domain.Failure, error) {
	if s.Failures == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	return s.Failures.Recent(ctx, limit)
}

// ReportKey is the archive object key for rec.
func ReportKey(rec *domain.Record) string {
	return fmt.Sprintf("analyses/%s/%s.json", rec.CreatedAt.UTC().Format("2006/01/02"), rec.ID)
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
