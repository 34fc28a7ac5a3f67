package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

// Formats accepted by Write.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Write renders rec to w in the given format. Unknown formats fall back to human.
func Write(w io.Writer, rec *domain.Record, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatYAML:
		return writeYAML(w, rec)
	case FormatHuman:
		fallthrough
	default:
		return writeHuman(w, rec.Analysis)
	}
}

func writeJSON(w io.Writer, rec *domain.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func writeYAML(w io.Writer, rec *domain.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}

func writeHuman(w io.Writer, a *domain.Analysis) error {
	if a == nil {
		return fmt.Errorf("no analysis to display")
	}
	heading := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w)
	heading.Fprintln(w, "EXECUTIVE SUMMARY")
	fmt.Fprintf(w, "%s\n\n", wrapText(a.ExecutiveSummary, 80, "   "))

	green.Fprintln(w, "WHAT WORKS")
	for _, s := range a.WhatWorks {
		fmt.Fprintf(w, "   + %s\n", s)
	}
	fmt.Fprintln(w)

	red.Fprintln(w, "CRITICAL ISSUES")
	for _, s := range a.CriticalIssues {
		fmt.Fprintf(w, "   ! %s\n", s)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "MARKET REALITY CHECK")
	fmt.Fprintf(w, "   Competition: %s\n", a.MarketRealityCheck.Competition)
	fmt.Fprintf(w, "   Demand:      %s\n", a.MarketRealityCheck.Demand)
	fmt.Fprintf(w, "   Timing:      %s\n\n", a.MarketRealityCheck.Timing)

	heading.Fprintln(w, "TECHNICAL FEASIBILITY")
	fmt.Fprintf(w, "   Complexity: %s\n", a.TechnicalFeasibility.Complexity)
	fmt.Fprintf(w, "   Resources:  %s\n\n", a.TechnicalFeasibility.Resources)

	heading.Fprintln(w, "REVENUE PROBABILITY")
	bandColor(a.RevenueBand()).Fprintf(w, "   %d%% chance of $10K+ MRR within 18 months (%s)\n",
		a.RevenueProbability.Percentage, strings.ToUpper(string(a.RevenueBand())))
	fmt.Fprintf(w, "%s\n\n", wrapText(a.RevenueProbability.Justification, 80, "   "))

	heading.Fprintln(w, "NEXT STEPS")
	for i, step := range a.SortedNextSteps() {
		fmt.Fprintf(w, "   %d. [P%d] %s\n", i+1, step.Priority, step.Action)
		fmt.Fprintf(w, "      %s\n", step.Details)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "SUCCESS METRICS")
	for _, m := range a.SuccessMetrics {
		fmt.Fprintf(w, "   - %s: %s\n", m.Metric, m.Description)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintln(w, color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
	return nil
}

func bandColor(b domain.Band) *color.Color {
	switch b {
	case domain.BandHigh:
		return color.New(color.FgGreen, color.Bold)
	case domain.BandMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		current := indent
		for _, word := range words {
			switch {
			case len(current)+len(word)+1 > width && current != indent:
				result.WriteString(current + "\n")
				current = indent + word
			case current == indent:
				current += word
			default:
				current += " " + word
			}
		}
		result.WriteString(current + "\n")
	}
	return strings.TrimSuffix(result.String(), "\n")
}
