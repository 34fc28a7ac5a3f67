package ideas

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyIdea is returned before any remote call when the idea is blank.
	ErrEmptyIdea = errors.New("please enter a business idea")

	// ErrConfiguration indicates a missing or invalid credential. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrServiceUnavailable indicates the remote model call failed (network, auth, quota, server).
	ErrServiceUnavailable = errors.New("analysis service unavailable")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// ErrMalformedResponse indicates the model answered with text that does not fit the schema.
	ErrMalformedResponse = errors.New("malformed analysis response")

	// ErrHistoryDisabled is returned by history reads when no repository is configured.
	ErrHistoryDisabled = errors.New("analysis history is disabled")

	// ErrNotFound is returned when a stored analysis does not exist.
	ErrNotFound = errors.New("analysis not found")
)

// AnalysisError classifies a failed request. Kind is one of the sentinels above;
// Raw holds the model output when the failure happened after a response arrived.
type AnalysisError struct {
	Kind error
	Raw  string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Kind labels, stable for logs, metrics and API responses.
const (
	KindEmptyIdea          = "empty_idea"
	KindConfiguration      = "configuration"
	KindQuotaExceeded      = "quota_exceeded"
	KindServiceUnavailable = "service_unavailable"
	KindMalformedResponse  = "malformed_response"
	KindUnknown            = "unknown"
)

// KindOf maps an error to its label. Quota is checked before the broader service kind.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyIdea):
		return KindEmptyIdea
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuotaExceeded
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrServiceUnavailable):
		return KindServiceUnavailable
	default:
		return KindUnknown
	}
}

// RawResponse returns the model output attached to err, if any.
func RawResponse(err error) string {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Raw
	}
	return ""
}

// Messages shown to end users. Service and malformed failures share one message.
const (
	MsgEmptyIdea = "Please enter a business idea."
	MsgGeneric   = "An error occurred while analyzing your idea. Please try again."
)

// UserMessage returns the end-user text for err.
func UserMessage(err error) string {
	if errors.Is(err, ErrEmptyIdea) {
		return MsgEmptyIdea
	}
	return MsgGeneric
}
