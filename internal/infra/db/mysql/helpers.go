package mysql

import (
	"encoding/json"
	"strings"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// encodeAnalysis returns the JSON column value; a nil analysis is stored as an empty object.
func encodeAnalysis(a *domain.Analysis) (string, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeAnalysis(s string) (*domain.Analysis, error) {
	var a domain.Analysis
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
