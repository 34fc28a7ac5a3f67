package ideas

import "time"

// RecordID identifier type
type RecordID string

// Record is a stored analysis kept for history and auditing.
type Record struct {
	ID         RecordID  `json:"id" yaml:"id"`
	Idea       string    `json:"idea" yaml:"idea"`
	Provider   string    `json:"provider" yaml:"provider"`
	Model      string    `json:"model" yaml:"model"`
	Analysis   *Analysis `json:"analysis" yaml:"analysis"`
	ReportURL  string    `json:"report_url,omitempty" yaml:"report_url,omitempty"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Failure is a persisted diagnostic entry for a request that produced no Analysis.
type Failure struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Provider    string    `json:"provider,omitempty"`
	Message     string    `json:"message"`
	IdeaExcerpt string    `json:"idea_excerpt,omitempty"`
	RawResponse string    `json:"raw_response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Page is one page of history.
type Page struct {
	Data     []*Record `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}
