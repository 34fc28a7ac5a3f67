package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	appideas "github.com/bryanwahyu/idea-coach/internal/application/ideas"
	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
	"github.com/bryanwahyu/idea-coach/internal/middleware"
)

const fixedResponse = `{"executiveSummary":"Solid niche","whatWorks":["A"],"criticalIssues":["B"],"marketRealityCheck":{"competition":"c","demand":"d","timing":"t"},"technicalFeasibility":{"complexity":"x","resources":"y"},"revenueProbability":{"percentage":72,"justification":"z"},"nextSteps":[{"priority":2,"action":"Later step","details":"it"},{"priority":1,"action":"First step","details":"it"}],"successMetrics":[{"metric":"MRR","description":"D"}]}`

type stubGenerator struct {
	mu    sync.Mutex
	calls int
	out   string
	err   error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.out, g.err
}

func (g *stubGenerator) Provider() string { return "stub" }
func (g *stubGenerator) Model() string    { return "stub-1" }

type memRepo struct {
	mu   sync.Mutex
	recs []*domain.Record
}

func (m *memRepo) Save(_ context.Context, rec *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memRepo) Get(_ context.Context, id domain.RecordID) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Paginate(_ context.Context, page, pageSize int) ([]*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Record(nil), m.recs...), nil
}

func newTestRouter(gen *stubGenerator, opts Options) (http.Handler, *appideas.Service) {
	svc := appideas.NewService(gen)
	svc.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.Logger = svc.Logger
	if opts.MaxIdeaBytes == 0 {
		opts.MaxIdeaBytes = 1024
	}
	return NewRouter(svc, opts), svc
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyze_Created(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	h, _ := newTestRouter(gen, Options{})

	rec := postJSON(h, "/v1/analyses", `{"idea":"Climbing gym meal kits"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Climbing gym meal kits", got.Idea)
	assert.Equal(t, "stub", got.Provider)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, 72, got.Analysis.RevenueProbability.Percentage)
}

func TestAnalyze_Errors(t *testing.T) {
	cases := []struct {
		name   string
		gen    *stubGenerator
		body   string
		status int
		code   string
		msg    string
		calls  int
	}{
		{"empty idea", &stubGenerator{out: fixedResponse}, `{"idea":"   "}`, http.StatusBadRequest, domain.KindEmptyIdea, domain.MsgEmptyIdea, 0},
		{"bad json", &stubGenerator{out: fixedResponse}, `{"idea":`, http.StatusBadRequest, "bad_request", "invalid JSON body", 0},
		{"too long", &stubGenerator{out: fixedResponse}, fmt.Sprintf(`{"idea":%q}`, strings.Repeat("x", 2000)), http.StatusBadRequest, "bad_request", "idea is too long (max 1024 bytes)", 0},
		{"unavailable", &stubGenerator{err: errors.New("dial tcp: connection refused")}, `{"idea":"x"}`, http.StatusBadGateway, domain.KindServiceUnavailable, domain.MsgGeneric, 1},
		{"malformed", &stubGenerator{out: "not json"}, `{"idea":"x"}`, http.StatusBadGateway, domain.KindMalformedResponse, domain.MsgGeneric, 1},
		{"quota", &stubGenerator{err: fmt.Errorf("%w: 429", domain.ErrQuotaExceeded)}, `{"idea":"x"}`, http.StatusTooManyRequests, domain.KindQuotaExceeded, domain.MsgGeneric, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, _ := newTestRouter(c.gen, Options{})
			rec := postJSON(h, "/v1/analyses", c.body)
			assert.Equal(t, c.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, c.code, body.Code)
			assert.Equal(t, c.msg, body.Error)
			assert.Equal(t, c.calls, c.gen.calls)
		})
	}
}

func TestHistory_Disabled(t *testing.T) {
	h, _ := newTestRouter(&stubGenerator{out: fixedResponse}, Options{})

	for _, path := range []string{"/v1/analyses", "/v1/failures", "/v1/analyses/8f14e45f-ceea-4e7b-a1f7-6e1c3f0c2a10"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "history_disabled", decodeError(t, rec).Code)
	}
}

func TestHistory_Enabled(t *testing.T) {
	h, svc := newTestRouter(&stubGenerator{out: fixedResponse}, Options{})
	repo := &memRepo{}
	svc.Repo = repo

	created := postJSON(h, "/v1/analyses", `{"idea":"idea one"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	require.Len(t, repo.recs, 1)
	id := string(repo.recs[0].ID)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"idea":"idea one"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/8f14e45f-ceea-4e7b-a1f7-6e1c3f0c2a10", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses?page=0&page_size=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PageSize)
	assert.Len(t, page.Data, 1)
}

func TestAPIKeys(t *testing.T) {
	h, _ := newTestRouter(&stubGenerator{out: fixedResponse}, Options{APIKeys: map[string]string{"web": "k1"}})

	rec := postJSON(h, "/v1/analyses", `{"idea":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"idea":"x"}`))
	req.Header.Set("Authorization", "Bearer k1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// the web form is public
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	h, _ := newTestRouter(gen, Options{RateLimiter: middleware.NewRateLimiter(rate.Limit(1), 1)})

	assert.Equal(t, http.StatusCreated, postJSON(h, "/v1/analyses", `{"idea":"x"}`).Code)
	rec := postJSON(h, "/v1/analyses", `{"idea":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, gen.calls)
}

func submitForm(h http.Handler, idea string) *httptest.ResponseRecorder {
	form := url.Values{"idea": {idea}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebForm(t *testing.T) {
	h, _ := newTestRouter(&stubGenerator{out: fixedResponse}, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `<textarea id="idea" name="idea"`)
	assert.NotContains(t, rec.Body.String(), `id="report"`)

	rec = submitForm(h, "Climbing gym meal kits")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Solid niche")
	assert.Contains(t, body, `class="band-high"`)
	first, later := strings.Index(body, "First step"), strings.Index(body, "Later step")
	require.True(t, first > 0 && later > 0)
	assert.Less(t, first, later, "next steps are sorted by priority")
}

func TestWebForm_Errors(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	h, _ := newTestRouter(gen, Options{})

	rec := submitForm(h, "  ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.MsgEmptyIdea)
	assert.Equal(t, 0, gen.calls)

	for _, g := range []*stubGenerator{
		{err: errors.New("secret upstream detail")},
		{out: "I love it"},
	} {
		h, _ := newTestRouter(g, Options{})
		rec := submitForm(h, "<b>idea</b>")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, domain.MsgGeneric)
		assert.NotContains(t, body, "secret upstream detail")
		assert.NotContains(t, body, "I love it")
		assert.Contains(t, body, "&lt;b&gt;idea&lt;/b&gt;")
	}
}

func TestProbes(t *testing.T) {
	h, _ := newTestRouter(&stubGenerator{}, Options{})
	for path, code := range map[string]int{"/livez": 200, "/readyz": 200, "/health": 200, "/metrics": 200} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, rec.Code, path)
	}
}

// endlessIdea streams `{"idea":"aaaa...` forever and counts what was read.
type endlessIdea struct {
	prefix []byte
	read   int64
}

func (e *endlessIdea) Read(p []byte) (int, error) {
	n := copy(p, e.prefix)
	e.prefix = e.prefix[n:]
	for i := n; i < len(p); i++ {
		p[i] = 'a'
	}
	e.read += int64(len(p))
	return len(p), nil
}

func TestAnalyze_BodyIsCapped(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	h, _ := newTestRouter(gen, Options{MaxIdeaBytes: 1024})

	body := &endlessIdea{prefix: []byte(`{"idea":"`)}
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "idea is too long (max 1024 bytes)", decodeError(t, rec).Error)
	assert.Less(t, body.read, int64(64<<10))
	assert.Equal(t, 0, gen.calls)
}

func TestWebForm_BodyIsCapped(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	h, _ := newTestRouter(gen, Options{MaxIdeaBytes: 1024})

	rec := submitForm(h, strings.Repeat("x", 16<<10))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "idea is too long (max 1024 bytes)")
	assert.NotContains(t, rec.Body.String(), domain.MsgGeneric)
	assert.Equal(t, 0, gen.calls)
}
