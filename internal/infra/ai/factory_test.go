package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

func TestNew(t *testing.T) {
	g, err := New(context.Background(), Settings{Provider: "OpenAI", APIKey: "sk-test", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "openai", g.Provider())
	assert.Equal(t, "gpt-4o", g.Model())

	_, err = New(context.Background(), Settings{Provider: "openai"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = New(context.Background(), Settings{})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "gemini without key")

	_, err = New(context.Background(), Settings{Provider: "claude", APIKey: "k"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
