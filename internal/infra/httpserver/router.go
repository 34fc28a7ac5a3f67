package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appideas "github.com/bryanwahyu/idea-coach/internal/application/ideas"
	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
	"github.com/bryanwahyu/idea-coach/internal/middleware"
)

// requestError is a client mistake; its message is safe to show.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// Options configures the router. Zero values disable the matching feature.
type Options struct {
	AllowedOrigins []string
	APIKeys        map[string]string
	MaxIdeaBytes   int
	RateLimiter    *middleware.RateLimiter
	HealthCheckers map[string]middleware.HealthChecker
	Logger         *slog.Logger
}

type Router struct {
	svc          *appideas.Service
	logger       *slog.Logger
	maxIdeaBytes int
}

func NewRouter(svc *appideas.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{svc: svc, logger: logger, maxIdeaBytes: opts.MaxIdeaBytes}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(logger))
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Metrics)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Retry-After", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Middleware
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Handle("/metrics", middleware.MetricsHandler())

	mux.Get("/", r.wrap(r.handleIndex))
	mux.With(limit).Post("/", r.wrap(r.handleSubmit))

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		rt.With(limit).Post("/analyses", r.wrap(r.handleAnalyze))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/failures", r.wrap(r.handleFailures))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var re *requestError
		switch {
		case errors.As(err, &re):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: re.msg, Code: "bad_request"})
		case errors.Is(err, domain.ErrEmptyIdea):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.MsgEmptyIdea, Code: domain.KindEmptyIdea})
		case errors.Is(err, domain.ErrQuotaExceeded):
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: domain.MsgGeneric, Code: domain.KindQuotaExceeded})
		case errors.Is(err, domain.ErrServiceUnavailable), errors.Is(err, domain.ErrMalformedResponse):
			writeJSON(w, http.StatusBadGateway, errorBody{Error: domain.MsgGeneric, Code: domain.KindOf(err)})
		case errors.Is(err, domain.ErrHistoryDisabled):
			writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: "history_disabled"})
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: "not_found"})
		default:
			r.logger.ErrorContext(req.Context(), "request failed", "path", req.URL.Path, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// analyze runs one analysis and records its outcome metric.
func (r *Router) analyze(req *http.Request, idea string) (*domain.Record, error) {
	idea = middleware.SanitizeIdea(idea)
	if err := middleware.ValidateIdeaSize(idea, r.maxIdeaBytes); err != nil {
		return nil, badRequest("%v", err)
	}

	start := r.svc.Clock.Now()
	rec, err := r.svc.Analyze(req.Context(), idea)
	outcome := "success"
	if err != nil {
		outcome = domain.KindOf(err)
	}
	middleware.RecordAnalysis(r.svc.Generator.Provider(), outcome, r.svc.Clock.Now().Sub(start))
	return rec, err
}

// limitBody caps the request body. Encoded bodies may escape each idea byte
// into up to six bytes, plus room for the envelope.
func (r *Router) limitBody(w http.ResponseWriter, req *http.Request) {
	if r.maxIdeaBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, int64(r.maxIdeaBytes)*6+1024)
	}
}

func (r *Router) tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// POST /v1/analyses
// Body: {"idea": "<free text>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Idea string `json:"idea"`
	}
	r.limitBody(w, req)
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		if r.tooLarge(err) {
			return badRequest("idea is too long (max %d bytes)", r.maxIdeaBytes)
		}
		return badRequest("invalid JSON body")
	}

	rec, err := r.analyze(req, body.Idea)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, rec)
	return nil
}

// GET /v1/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.List(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /v1/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest("%v", err)
	}

	rec, err := r.svc.Get(req.Context(), domain.RecordID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rec)
	return nil
}

// GET /v1/failures?limit=20
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.RecentFailures(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}
