// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"keyrecover/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements human-readable text output
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen, color.Bold),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	if report == nil {
		return "", fmt.Errorf("no report to format")
	}

	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	if options.Verbose {
		f.appendSearchDetails(&builder, report)
	}

	switch {
	case report.Matched():
		label := "Match found"
		if len(report.Matches) > 1 {
			label = fmt.Sprintf("%d matches found", len(report.Matches))
		}
		builder.WriteString(f.colors["green"].Sprint(label + ":"))
		builder.WriteString("\n")
		for _, key := range report.Matches {
			builder.WriteString("  ")
			builder.WriteString(f.colors["white"].Sprint(key))
			builder.WriteString("\n")
		}
	case report.Interrupted:
		builder.WriteString(f.colors["yellow"].Sprintf("Search interrupted after %d of %d candidates.", report.Tested, report.Total))
		builder.WriteString("\n")
		builder.WriteString("No match found.\n")
	default:
		builder.WriteString("No match found.\n")
	}

	fmt.Fprintf(&builder, "Elapsed: %s\n", formatElapsed(report.Elapsed))
	return strings.TrimRight(builder.String(), "\n"), nil
}

// appendSearchDetails writes the search setup and counters
func (f *Formatter) appendSearchDetails(builder *strings.Builder, report *formatters.Report) {
	row := func(label, value string) {
		fmt.Fprintf(builder, "%s %s\n", f.colors["cyan"].Sprintf("%-13s", label+":"), value)
	}

	row("Mode", report.Mode)
	row("Pattern", report.Pattern)
	row("Family", report.Family)
	row("Target", report.Target)
	row("Address type", report.AddressType)
	row("Network", report.Network)
	row("Policy", report.Policy)
	row("Workers", fmt.Sprintf("%d", report.Workers))
	row("Tested", fmt.Sprintf("%d of %d", report.Tested, report.Total))

	if report.Failures > 0 {
		kinds := make([]string, 0, len(report.FailuresByKind))
		for kind := range report.FailuresByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		parts := make([]string, 0, len(kinds))
		for _, kind := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, report.FailuresByKind[kind]))
		}
		row("Failures", f.colors["red"].Sprintf("%d (%s)", report.Failures, strings.Join(parts, ", ")))
	}
	builder.WriteString("\n")
}

// formatElapsed rounds the duration for display
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
