// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides what happens after a match
type Policy int

const (
	// StopOnFirstMatch ends the search at the first observed match. When
	// several candidates match, which one is reported is not deterministic.
	StopOnFirstMatch Policy = iota
	// ScanAll evaluates every candidate and reports every match
	ScanAll
)

func (p Policy) String() string {
	if p == ScanAll {
		return "all"
	}
	return "first"
}

// ParsePolicy parses a configured policy name
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first", "stop-on-first-match":
		return StopOnFirstMatch, nil
	case "all", "scan-all":
		return ScanAll, nil
	default:
		return StopOnFirstMatch, fmt.Errorf("unknown policy '%s' (valid: first, all)", name)
	}
}

// Outcome is the single result of a search
type Outcome struct {
	Matches        []string          `json:"matches"`
	Tested         uint64            `json:"tested"`
	Failures       uint64            `json:"failures"`
	FailuresByKind map[string]uint64 `json:"failures_by_kind,omitempty"`
	Total          uint64            `json:"total"`
	Stopped        bool              `json:"stopped"`     // ended early on a match
	Interrupted    bool              `json:"interrupted"` // context cancelled
	Workers        int               `json:"workers"`
	Duration       time.Duration     `json:"duration"`
}

// Matched reports whether any candidate matched
func (o *Outcome) Matched() bool {
	return o != nil && len(o.Matches) > 0
}
