package ai

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
	"github.com/bryanwahyu/idea-coach/internal/infra/ai/gemini"
	"github.com/bryanwahyu/idea-coach/internal/infra/ai/openai"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string
}

// New creates the generator for the configured provider. Gemini is the default.
func New(ctx context.Context, s Settings) (domain.Generator, error) {
	switch Provider(strings.ToLower(string(s.Provider))) {
	case ProviderGemini, "":
		return gemini.NewClient(ctx, s.APIKey, s.Model)
	case ProviderOpenAI:
		return openai.NewClient(s.APIKey, s.Model, s.BaseURL)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s (supported: gemini, openai)", domain.ErrConfiguration, s.Provider)
	}
}

// Providers returns the supported provider names.
func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI}
}
