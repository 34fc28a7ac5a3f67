package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

type historyOptions struct {
	server   string
	apiKey   string
	page     int
	pageSize int
	output   string
}

// NewHistoryCmd lists stored analyses from a running coach server.
func NewHistoryCmd() *cobra.Command {
	opts := &historyOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses stored by a coach server",
		Long: `List past analyses stored by a coach server. The server must run with a database configured.

Examples:
  coach history --server http://localhost:8080
  coach history --page 2 --page-size 50 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	server := os.Getenv("COACH_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	cmd.Flags().StringVar(&opts.server, "server", server, "Base URL of the coach server")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", os.Getenv("COACH_API_KEY"), "API key for the /v1 endpoints")
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 20, "Page size (max 100)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *historyOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	page, err := fetchHistory(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	if len(page.Data) == 0 {
		fmt.Fprintln(out, "No analyses found.")
		return nil
	}
	return historyTable(out, page.Data)
}

func fetchHistory(ctx context.Context, opts *historyOptions) (*domain.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(opts.page))
	q.Set("page_size", strconv.Itoa(opts.pageSize))
	endpoint := strings.TrimRight(opts.server, "/") + "/v1/analyses?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if opts.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+opts.apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting %s: %w", opts.server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) != nil || body.Error == "" {
			body.Error = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}

	var page domain.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	return &page, nil
}

func historyTable(w io.Writer, recs []*domain.Record) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		revenue := "-"
		if r.Analysis != nil {
			revenue = fmt.Sprintf("%d%% (%s)", r.Analysis.RevenueProbability.Percentage, r.Analysis.RevenueBand())
		}
		rows = append(rows, []string{
			string(r.ID),
			r.CreatedAt.Format(time.DateTime),
			r.Provider,
			revenue,
			truncate(r.Idea, 48),
		})
	}

	table.Header([]string{"ID", "Created", "Provider", "Revenue", "Idea"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
