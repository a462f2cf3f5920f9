// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"keyrecover/internal/formatters"
	"keyrecover/internal/formatters/shared"
)

// Formatter implements CSV output formatting, one row per recovered key
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	if report == nil {
		return "", fmt.Errorf("no report to format")
	}

	headers := []string{"Key", "Target", "Status"}
	if options.Verbose {
		headers = append(headers, "Address Type", "Network", "Tested", "Total")
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(headers); err != nil {
		return "", err
	}

	status := shared.Status(report)
	for _, key := range report.Matches {
		row := []string{key, report.Target, status}
		if options.Verbose {
			row = append(row,
				report.AddressType,
				report.Network,
				strconv.FormatUint(report.Tested, 10),
				strconv.FormatUint(report.Total, 10),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
