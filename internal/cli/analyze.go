package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	appideas "github.com/bryanwahyu/idea-coach/internal/application/ideas"
	"github.com/bryanwahyu/idea-coach/internal/config"
	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
	"github.com/bryanwahyu/idea-coach/internal/infra/ai"
	"github.com/bryanwahyu/idea-coach/internal/logger"
	"github.com/bryanwahyu/idea-coach/internal/report"
)

// newGenerator is replaced in tests.
var newGenerator = ai.New

type analyzeOptions struct {
	configPath string
	output     string
	provider   string
	model      string
	timeout    time.Duration
	verbose    bool
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [IDEA...]",
		Short: "Analyze a business idea",
		Long: `Analyze a business idea with AI assistance.

The idea is read from the arguments, or from stdin when no argument (or "-") is given.

Examples:
  # Quick analysis
  coach analyze "subscription meal kits for rock climbers"

  # Read a longer pitch from a file
  coach analyze < pitch.txt

  # Machine-readable output with another provider
  coach analyze -o json --provider openai "AI bookkeeping for food trucks"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cmd.Flags().StringVar(&opts.configPath, "config", path, "Path to the YAML config file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", report.FormatHuman, "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "AI provider (gemini, openai); defaults to LLM_PROVIDER")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name; defaults to LLM_MODEL or the provider default")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 3*time.Minute, "Maximum time to wait for the analysis")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	switch opts.output {
	case report.FormatHuman, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (human, json, yaml)", opts.output)
	}

	idea, err := readIdea(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return err
	}
	cfg.UseProvider(opts.provider, opts.model)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logOut := io.Discard
	if opts.verbose {
		logOut = cmd.ErrOrStderr()
	}
	log := logger.Init(logOut, "debug", cfg.Log.Format)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	gen, err := newGenerator(ctx, ai.Settings{
		Provider: ai.Provider(cfg.AI.Provider),
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return err
	}
	svc := appideas.NewService(gen)
	svc.Logger = log

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = fmt.Sprintf(" Analyzing with %s (%s)...", gen.Provider(), gen.Model())
	s.Start()
	rec, err := svc.Analyze(ctx, idea)
	s.Stop()
	if err != nil {
		printError(cmd.ErrOrStderr(), domain.UserMessage(err))
		return errAnalysisFailed
	}

	return report.Write(cmd.OutOrStdout(), rec, opts.output)
}

// errAnalysisFailed signals a failure already reported to the user.
var errAnalysisFailed = errors.New("analysis failed")

// IsReported reports whether err was already printed.
func IsReported(err error) bool { return errors.Is(err, errAnalysisFailed) }

func readIdea(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading idea from stdin: %w", err)
	}
	return string(b), nil
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "✗ %s\n", msg)
}
