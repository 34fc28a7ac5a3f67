package httpserver

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	Idea   string
	Error  string
	Record *domain.Record
}

func render(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	return render(w, http.StatusOK, pageData{})
}

// POST /
// Errors are shown in the page, never as raw error text.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	r.limitBody(w, req)
	if err := req.ParseForm(); err != nil {
		msg := domain.MsgGeneric
		if r.tooLarge(err) {
			msg = fmt.Sprintf("idea is too long (max %d bytes)", r.maxIdeaBytes)
		}
		return render(w, http.StatusBadRequest, pageData{Error: msg})
	}
	idea := req.PostFormValue("idea")

	rec, err := r.analyze(req, idea)
	if err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return render(w, http.StatusBadRequest, pageData{Idea: idea, Error: re.msg})
		}
		return render(w, statusFor(err), pageData{Idea: idea, Error: domain.UserMessage(err)})
	}
	return render(w, http.StatusOK, pageData{Idea: rec.Idea, Record: rec})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyIdea):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
