package ideas

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// presence catches integer fields the model left out; a missing value
// would otherwise decode as a valid 0.
type presence struct {
	RevenueProbability *struct {
		Percentage *int `json:"percentage" validate:"required"`
	} `json:"revenueProbability" validate:"required"`
	NextSteps []struct {
		Priority *int `json:"priority" validate:"required"`
	} `json:"nextSteps" validate:"dive"`
}

// ParseAnalysis decodes model output into an Analysis. Surrounding whitespace is
// ignored; anything that does not decode or misses a required field is reported
// as ErrMalformedResponse with the raw text attached.
func ParseAnalysis(raw string) (*Analysis, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &AnalysisError{Kind: ErrMalformedResponse, Raw: raw}
	}

	var a Analysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, &AnalysisError{Kind: ErrMalformedResponse, Raw: raw, Err: err}
	}
	if err := validate.Struct(&a); err != nil {
		return nil, &AnalysisError{Kind: ErrMalformedResponse, Raw: raw, Err: err}
	}

	var p presence
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, &AnalysisError{Kind: ErrMalformedResponse, Raw: raw, Err: err}
	}
	if err := validate.Struct(&p); err != nil {
		return nil, &AnalysisError{Kind: ErrMalformedResponse, Raw: raw, Err: err}
	}
	return &a, nil
}
