// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"keyrecover/internal/formatters"
	_ "keyrecover/internal/formatters/csv"
	_ "keyrecover/internal/formatters/json"
	"keyrecover/internal/formatters/shared"
	_ "keyrecover/internal/formatters/text"
	_ "keyrecover/internal/formatters/yaml"

	"gopkg.in/yaml.v3"
)

func matchedReport() *formatters.Report {
	return &formatters.Report{
		Mode:           "wildcard",
		Pattern:        "dc7546c9cef4e980c*63a4cb42efede82c40c0e5fce55c4a7304f32747e029e1",
		Target:         "1JwvWezRrU2yDh1eSwWezyrx3SyKYmtFDQ",
		Family:         "hex",
		AddressType:    "p2pkh",
		Network:        "mainnet",
		Policy:         "first",
		Workers:        4,
		Total:          16,
		Tested:         6,
		Failures:       1,
		FailuresByKind: map[string]uint64{"invalid_key": 1},
		Matches:        []string{"dc7546c9cef4e980c563a4cb42efede82c40c0e5fce55c4a7304f32747e029e1"},
		Stopped:        true,
		Elapsed:        1500 * time.Millisecond,
	}
}

func TestRegistry_ListsBuiltins(t *testing.T) {
	got := formatters.List()
	want := []string{"csv", "json", "text", "yaml"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := formatters.Export("sarif", matchedReport(), formatters.FormatterOptions{})
	if err == nil || !strings.Contains(err.Error(), "Available formats") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestText_Match(t *testing.T) {
	out, err := formatters.Export("text", matchedReport(), formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Match found:") || !strings.Contains(out, "c563a4cb") {
		t.Errorf("unexpected text output:\n%s", out)
	}
	if !strings.Contains(out, "Elapsed: 1.5s") {
		t.Errorf("expected elapsed time, got:\n%s", out)
	}
	if strings.Contains(out, "Policy:") {
		t.Errorf("search details should only be shown when verbose:\n%s", out)
	}
}

func TestText_Verbose(t *testing.T) {
	out, err := formatters.Export("text", matchedReport(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Policy:", "6 of 16", "invalid_key=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in verbose output:\n%s", want, out)
		}
	}
}

func TestText_NoMatch(t *testing.T) {
	report := &formatters.Report{Total: 16, Tested: 16, Elapsed: 20 * time.Millisecond}
	out, err := formatters.Export("text", report, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "No match found.") {
		t.Errorf("unexpected output:\n%s", out)
	}

	report.Interrupted = true
	report.Tested = 3
	out, _ = formatters.Export("text", report, formatters.FormatterOptions{NoColor: true})
	if !strings.Contains(out, "interrupted after 3 of 16") {
		t.Errorf("expected interruption notice:\n%s", out)
	}
}

func TestJSON_Document(t *testing.T) {
	out, err := formatters.Export("json", matchedReport(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var doc shared.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Status != shared.StatusMatched || len(doc.Matches) != 1 || doc.ElapsedMs != 1500 {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.Search != nil {
		t.Error("search info should be omitted unless verbose")
	}
}

func TestJSON_EmptyMatchesIsArray(t *testing.T) {
	out, err := formatters.Export("json", &formatters.Report{}, formatters.FormatterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"matches": []`) {
		t.Errorf("expected empty array, got:\n%s", out)
	}
	if !strings.Contains(out, `"status": "exhausted"`) {
		t.Errorf("expected exhausted status, got:\n%s", out)
	}
}

func TestYAML_MatchesJSONStructure(t *testing.T) {
	out, err := formatters.Export("yaml", matchedReport(), formatters.FormatterOptions{Verbose: true})
	if err != nil {
		t.Fatal(err)
	}

	var doc shared.Document
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if doc.Search == nil || doc.Search.Policy != "first" {
		t.Errorf("expected verbose search info, got %+v", doc.Search)
	}
	if doc.Failures == nil || doc.Failures.ByKind["invalid_key"] != 1 {
		t.Errorf("expected failure counts, got %+v", doc.Failures)
	}
}

func TestCSV_Rows(t *testing.T) {
	out, err := formatters.Export("csv", matchedReport(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "Key,Target,Status" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",matched") {
		t.Errorf("unexpected row %q", lines[1])
	}
}
