package ideas

import (
	"sort"
	"strings"
)

// Idea is the free-text business concept submitted for evaluation.
type Idea struct {
	text string
}

// NewIdea trims the input and rejects empty or whitespace-only text.
func NewIdea(text string) (Idea, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Idea{}, ErrEmptyIdea
	}
	return Idea{text: t}, nil
}

func (i Idea) String() string { return i.text }

// Analysis is the structured evaluation returned for an idea.
type Analysis struct {
	ExecutiveSummary     string               `json:"executiveSummary" yaml:"executiveSummary" validate:"notblank"`
	WhatWorks            []string             `json:"whatWorks" yaml:"whatWorks" validate:"required"`
	CriticalIssues       []string             `json:"criticalIssues" yaml:"criticalIssues" validate:"required"`
	MarketRealityCheck   MarketRealityCheck   `json:"marketRealityCheck" yaml:"marketRealityCheck"`
	TechnicalFeasibility TechnicalFeasibility `json:"technicalFeasibility" yaml:"technicalFeasibility"`
	RevenueProbability   RevenueProbability   `json:"revenueProbability" yaml:"revenueProbability"`
	NextSteps            []NextStep           `json:"nextSteps" yaml:"nextSteps" validate:"required,dive"`
	SuccessMetrics       []SuccessMetric      `json:"successMetrics" yaml:"successMetrics" validate:"required,dive"`
}

// MarketRealityCheck value object
type MarketRealityCheck struct {
	Competition string `json:"competition" yaml:"competition" validate:"required"`
	Demand      string `json:"demand" yaml:"demand" validate:"required"`
	Timing      string `json:"timing" yaml:"timing" validate:"required"`
}

// TechnicalFeasibility value object
type TechnicalFeasibility struct {
	Complexity string `json:"complexity" yaml:"complexity" validate:"required"`
	Resources  string `json:"resources" yaml:"resources" validate:"required"`
}

// RevenueProbability is the chance of reaching $10K+ MRR within 18 months.
type RevenueProbability struct {
	Percentage    int    `json:"percentage" yaml:"percentage" validate:"min=0,max=100"`
	Justification string `json:"justification" yaml:"justification" validate:"required"`
}

// NextStep is one ranked action. Priority 1 is the highest; producers do not
// guarantee unique or contiguous values.
type NextStep struct {
	Priority int    `json:"priority" yaml:"priority"`
	Action   string `json:"action" yaml:"action" validate:"required"`
	Details  string `json:"details" yaml:"details" validate:"required"`
}

// SuccessMetric is a KPI worth tracking for the idea.
type SuccessMetric struct {
	Metric      string `json:"metric" yaml:"metric" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"required"`
}

// SortedNextSteps returns a copy of NextSteps ordered by priority ascending.
// Steps sharing a priority keep their original order.
func (a *Analysis) SortedNextSteps() []NextStep {
	out := make([]NextStep, len(a.NextSteps))
	copy(out, a.NextSteps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Band groups a revenue percentage for display.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// RevenueBand classifies the revenue probability: >=60 high, >=30 medium, low otherwise.
func (a *Analysis) RevenueBand() Band {
	switch p := a.RevenueProbability.Percentage; {
	case p >= 60:
		return BandHigh
	case p >= 30:
		return BandMedium
	default:
		return BandLow
	}
}
