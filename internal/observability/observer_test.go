// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestStartTiming_DebugWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityDebug, &buf)

	finish := obs.StartTiming("searcher", "search", "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH")
	finish(true, map[string]interface{}{"workers": 4})

	var data StandardObservabilityData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", buf.String(), err)
	}
	if data.Component != "searcher" || data.Operation != "search" || !data.Success {
		t.Errorf("unexpected record %+v", data)
	}
	if !strings.HasPrefix(data.RequestID, "req-") {
		t.Errorf("expected request id, got %q", data.RequestID)
	}
}

func TestLogOperation_MetricsLevelIsSilent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)
	obs.LogOperation(StandardObservabilityData{Component: "x"})
	if buf.Len() != 0 {
		t.Errorf("expected no output at metrics level, got %q", buf.String())
	}
}

func TestLogOperation_NilObserver(t *testing.T) {
	var obs *StandardObserver
	obs.LogOperation(StandardObservabilityData{Component: "x"})
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)
	if d.StandardObserver.DebugObserver != d {
		t.Fatal("debug observer should be linked to its standard observer")
	}

	done := d.StartStep("core", "classify", "pattern")
	d.LogDetail("core", "family=hex")
	d.LogMetric("core", "candidates", 16)
	done(true, "ok")

	out := buf.String()
	for _, want := range []string{"core: classify (pattern)", "    → core: family=hex", "candidates = 16", "classify completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
