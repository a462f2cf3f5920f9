// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"keyrecover/internal/formatters"
)

// Status values shared by the structured formats
const (
	StatusMatched     = "matched"
	StatusExhausted   = "exhausted"
	StatusInterrupted = "interrupted"
)

// Document is the top-level structure for JSON/YAML output
type Document struct {
	Status    string       `json:"status" yaml:"status"`
	Target    string       `json:"target" yaml:"target"`
	Matches   []string     `json:"matches" yaml:"matches"`
	Tested    uint64       `json:"tested" yaml:"tested"`
	Total     uint64       `json:"total" yaml:"total"`
	ElapsedMs int64        `json:"elapsed_ms" yaml:"elapsed_ms"`
	Search    *SearchInfo  `json:"search,omitempty" yaml:"search,omitempty"`
	Failures  *FailureInfo `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// SearchInfo describes how the search was set up; verbose only
type SearchInfo struct {
	Mode        string `json:"mode" yaml:"mode"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Family      string `json:"family" yaml:"family"`
	AddressType string `json:"address_type" yaml:"address_type"`
	Network     string `json:"network" yaml:"network"`
	Policy      string `json:"policy" yaml:"policy"`
	Workers     int    `json:"workers" yaml:"workers"`
}

// FailureInfo counts candidates that could not be turned into an address
type FailureInfo struct {
	Total  uint64            `json:"total" yaml:"total"`
	ByKind map[string]uint64 `json:"by_kind,omitempty" yaml:"by_kind,omitempty"`
}

// Status classifies a report
func Status(report *formatters.Report) string {
	switch {
	case report.Matched():
		return StatusMatched
	case report.Interrupted:
		return StatusInterrupted
	default:
		return StatusExhausted
	}
}

// ConvertReportToDocument converts a report to the JSON/YAML structure
func ConvertReportToDocument(report *formatters.Report, options formatters.FormatterOptions) Document {
	matches := report.Matches
	if matches == nil {
		matches = []string{}
	}

	doc := Document{
		Status:    Status(report),
		Target:    report.Target,
		Matches:   matches,
		Tested:    report.Tested,
		Total:     report.Total,
		ElapsedMs: report.Elapsed.Milliseconds(),
	}

	if options.Verbose {
		doc.Search = &SearchInfo{
			Mode:        report.Mode,
			Pattern:     report.Pattern,
			Family:      report.Family,
			AddressType: report.AddressType,
			Network:     report.Network,
			Policy:      report.Policy,
			Workers:     report.Workers,
		}
		if report.Failures > 0 {
			byKind := make(map[string]uint64, len(report.FailuresByKind))
			for k, v := range report.FailuresByKind {
				byKind[k] = v
			}
			doc.Failures = &FailureInfo{Total: report.Failures, ByKind: byKind}
		}
	}
	return doc
}
