package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

const analysisJSON = `{"executiveSummary":"X","whatWorks":["A"],"criticalIssues":["B"],"marketRealityCheck":{"competition":"c","demand":"d","timing":"t"},"technicalFeasibility":{"complexity":"x","resources":"y"},"revenueProbability":{"percentage":7,"justification":"z"},"nextSteps":[],"successMetrics":[]}`

var columns = []string{"id", "idea", "provider", "model", "analysis_json", "report_url", "duration_ms", "created_at"}

func TestAnalysisRepository_SaveAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, err := domain.ParseAnalysis(analysisJSON)
	require.NoError(t, err)
	created := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	rec := &domain.Record{ID: "id-1", Idea: "idea", Provider: "openai", Model: "gpt-4o", Analysis: a, CreatedAt: created}

	mock.ExpectExec(`INSERT INTO idea_analyses (.+) ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("id-1", "idea", "openai", "gpt-4o", sqlmock.AnyArg(), 7, "", int64(0), created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM idea_analyses WHERE id=\$1`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("id-1", "idea", "openai", "gpt-4o", []byte(analysisJSON), "", int64(0), created))

	repo := NewAnalysisRepository(db)
	require.NoError(t, repo.Save(context.Background(), rec))

	got, err := repo.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_GetNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM idea_analyses").WillReturnRows(sqlmock.NewRows(columns))

	rec, err := NewAnalysisRepository(db).Get(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAnalysisRepository_PaginateDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM idea_analyses ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(columns))

	out, err := NewAnalysisRepository(db).Paginate(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_CorruptRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM idea_analyses").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("x", "idea", "gemini", "m", "{not json", "", int64(0), time.Now()))

	_, err = NewAnalysisRepository(db).Paginate(context.Background(), 1, 5)
	assert.Error(t, err)
}

func TestFailureRepository_SaveReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO idea_analysis_failures (.+) RETURNING id`).
		WithArgs("service_unavailable", "gemini", "timeout", "idea", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	f := &domain.Failure{Kind: "service_unavailable", Provider: "gemini", Message: "timeout", IdeaExcerpt: "idea"}
	require.NoError(t, NewFailureRepository(db).Save(context.Background(), f))
	assert.Equal(t, int64(3), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
