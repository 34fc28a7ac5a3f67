package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
	"github.com/bryanwahyu/idea-coach/internal/infra/ai"
)

const fixedResponse = `{"executiveSummary":"X","whatWorks":["A"],"criticalIssues":["B"],"marketRealityCheck":{"competition":"c","demand":"d","timing":"t"},"technicalFeasibility":{"complexity":"x","resources":"y"},"revenueProbability":{"percentage":42,"justification":"z"},"nextSteps":[{"priority":1,"action":"Do","details":"it"}],"successMetrics":[{"metric":"M","description":"D"}]}`

type stubGenerator struct {
	ideas []string
	out   string
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, idea string) (string, error) {
	g.ideas = append(g.ideas, idea)
	return g.out, g.err
}

func (g *stubGenerator) Provider() string { return "stub" }
func (g *stubGenerator) Model() string    { return "stub-1" }

func setup(t *testing.T, gen *stubGenerator) *ai.Settings {
	t.Helper()
	color.NoColor = true
	for _, k := range []string{"LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "CONFIG_PATH"} {
		t.Setenv(k, "")
	}
	t.Setenv("GEMINI_API_KEY", "g-key")

	var got ai.Settings
	prev := newGenerator
	newGenerator = func(_ context.Context, s ai.Settings) (domain.Generator, error) {
		got = s
		return gen, nil
	}
	t.Cleanup(func() { newGenerator = prev })
	return &got
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	args = append(args, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyze_Args(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	settings := setup(t, gen)

	out, _, err := run(t, "", "analyze", "meal", "kits")
	require.NoError(t, err)
	assert.Equal(t, []string{"meal kits"}, gen.ideas)
	assert.Contains(t, out, "EXECUTIVE SUMMARY")
	assert.Equal(t, ai.ProviderGemini, settings.Provider)
	assert.Equal(t, "g-key", settings.APIKey)
}

func TestAnalyze_StdinJSON(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	setup(t, gen)

	out, _, err := run(t, "  pitch from a file\n", "analyze", "-o", "json", "-")
	require.NoError(t, err)
	assert.Equal(t, []string{"pitch from a file"}, gen.ideas)

	var rec domain.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, 42, rec.Analysis.RevenueProbability.Percentage)
}

func TestAnalyze_ProviderFlag(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	settings := setup(t, gen)
	t.Setenv("OPENAI_API_KEY", "o-key")

	_, _, err := run(t, "", "analyze", "--provider", "openai", "--model", "gpt-4o", "idea")
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, settings.Provider)
	assert.Equal(t, "gpt-4o", settings.Model)
	assert.Equal(t, "o-key", settings.APIKey)
}

func TestAnalyze_EmptyIdea(t *testing.T) {
	gen := &stubGenerator{out: fixedResponse}
	setup(t, gen)

	out, errOut, err := run(t, "   \n", "analyze")
	assert.True(t, IsReported(err))
	assert.Empty(t, out)
	assert.Contains(t, errOut, domain.MsgEmptyIdea)
	assert.Empty(t, gen.ideas)
}

func TestAnalyze_FailureIsGeneric(t *testing.T) {
	for _, gen := range []*stubGenerator{
		{err: errors.New("upstream exploded")},
		{out: "not json"},
	} {
		setup(t, gen)
		out, errOut, err := run(t, "", "analyze", "idea")
		assert.True(t, IsReported(err))
		assert.Empty(t, out)
		assert.Contains(t, errOut, domain.MsgGeneric)
		assert.NotContains(t, errOut, "upstream exploded")
	}
}

func TestAnalyze_MissingKey(t *testing.T) {
	setup(t, &stubGenerator{})
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := run(t, "", "analyze", "idea")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.False(t, IsReported(err))
}

func TestAnalyze_BadOutput(t *testing.T) {
	setup(t, &stubGenerator{out: fixedResponse})
	_, _, err := run(t, "", "analyze", "-o", "xml", "idea")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestVersion(t *testing.T) {
	cmd := NewRootCmd("v1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "coach version v1.2.3\n", out.String())
}
