// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"keyrecover/internal/config"
	"keyrecover/internal/formatters"
	"keyrecover/internal/observability"
	"keyrecover/internal/parallel"
	"keyrecover/internal/security"
)

// RecoverConfig holds everything needed for one recovery run
type RecoverConfig struct {
	Input      string // pattern with placeholders, or a complete key in fuzzy mode
	Target     string // address the recovered key must derive
	Settings   config.Settings
	Passphrase *security.Passphrase
	Progress   parallel.ProgressCallback
	// DebugWriter receives debug traces; defaults to stderr
	DebugWriter io.Writer
}

// RecoverResult holds the outcome of a recovery run
type RecoverResult struct {
	Outcome *parallel.Outcome
	Report  *formatters.Report
}

// Recover builds the candidate space and deriver and runs the search. Any
// returned error is an input problem; an unsuccessful search is reported
// through the result.
func Recover(ctx context.Context, cfg RecoverConfig) (*RecoverResult, error) {
	debugWriter := cfg.DebugWriter
	if debugWriter == nil {
		debugWriter = os.Stderr
	}

	// Build observer
	observer := observability.NewStandardObserver(observability.ObservabilityMetrics, debugWriter)
	var debugObs *observability.DebugObserver
	if cfg.Settings.Debug {
		debugObs = observability.NewDebugObserver(debugWriter)
		observer = debugObs.StandardObserver
	}

	step := func(name string) func(bool, string) {
		if debugObs == nil {
			return func(bool, string) {}
		}
		return debugObs.StartStep("core", name, cfg.Target)
	}

	done := step("build_space")
	encrypted := !cfg.Passphrase.Empty()
	plan, err := BuildSpace(cfg.Input, cfg.Settings, encrypted)
	if err != nil {
		done(false, err.Error())
		return nil, err
	}
	done(true, fmt.Sprintf("family=%s mode=%s candidates=%d", plan.KeySpace.Family, plan.Mode, plan.Space.Len()))

	done = step("build_deriver")
	dplan, err := BuildDeriver(cfg.Settings, cfg.Target, cfg.Passphrase)
	if err != nil {
		done(false, err.Error())
		return nil, err
	}
	done(true, dplan.Deriver.String())

	policy, err := parallel.ParsePolicy(cfg.Settings.Policy)
	if err != nil {
		return nil, err
	}

	searcher := &parallel.Searcher{
		Workers:   cfg.Settings.Workers,
		BatchSize: cfg.Settings.BatchSize,
		Policy:    policy,
		Observer:  observer,
		Progress:  cfg.Progress,
	}

	done = step("search")
	outcome, err := searcher.Search(ctx, plan.Space, dplan.Target.Address, dplan.Deriver)
	if err != nil {
		done(false, err.Error())
		return nil, err
	}
	done(outcome.Matched(), fmt.Sprintf("tested=%d matches=%d", outcome.Tested, len(outcome.Matches)))

	if debugObs != nil {
		debugObs.LogMetric("core", "failures", outcome.Failures)
		debugObs.LogMetric("core", "duration", outcome.Duration)
	}

	return &RecoverResult{
		Outcome: outcome,
		Report:  BuildReport(plan, dplan, policy, outcome),
	}, nil
}

// BuildReport flattens a finished search into the formatter report
func BuildReport(plan *SpacePlan, dplan *DeriverPlan, policy parallel.Policy, outcome *parallel.Outcome) *formatters.Report {
	return &formatters.Report{
		Mode:           plan.Mode,
		Pattern:        plan.Pattern,
		Target:         dplan.Target.Address,
		Family:         plan.KeySpace.Family.String(),
		AddressType:    dplan.AddressType.String(),
		Network:        dplan.Params.Name,
		Policy:         policy.String(),
		Workers:        outcome.Workers,
		Total:          outcome.Total,
		Tested:         outcome.Tested,
		Failures:       outcome.Failures,
		FailuresByKind: outcome.FailuresByKind,
		Matches:        outcome.Matches,
		Stopped:        outcome.Stopped,
		Interrupted:    outcome.Interrupted,
		Elapsed:        outcome.Duration,
	}
}
