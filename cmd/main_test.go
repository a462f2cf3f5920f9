// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keyrecover/internal/config"
	"keyrecover/internal/paths"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hexPattern   = "dc7546c9cef4e980c*63a4cb42efede82c40c0e5fce55c4a7304f32747e029e1"
	hexRecovered = "dc7546c9cef4e980c563a4cb42efede82c40c0e5fce55c4a7304f32747e029e1"
	hexTarget    = "1JwvWezRrU2yDh1eSwWezyrx3SyKYmtFDQ"
	keyOneWIF    = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"
	keyOneP2PKH  = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
)

// isolate keeps the run away from any config file on the host
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	t.Chdir(t.TempDir())
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseArgs_InterleavedFlags(t *testing.T) {
	var f cliFlags
	fs := newFlagSet(&f, io.Discard)

	positional, err := parseArgs(fs, []string{"--mode", "fuzzy", "key", "--workers", "3", "addr", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "addr"}, positional)
	assert.Equal(t, "fuzzy", f.mode)
	assert.Equal(t, 3, f.workers)
	assert.True(t, f.quiet)
	assert.True(t, isFlagSet(fs, "workers"))
	assert.False(t, isFlagSet(fs, "policy"))
}

func TestResolveSettings_Precedence(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Defaults.Workers = 2
	cfg.Defaults.Format = "json"

	var f cliFlags
	fs := newFlagSet(&f, io.Discard)
	_, err = parseArgs(fs, []string{"--format", "yaml", "--uncompressed"})
	require.NoError(t, err)

	profile := cfg.GetProfile("exhaustive")
	require.NotNil(t, profile)

	s := resolveSettings(cfg, profile, fs, &f)
	assert.Equal(t, 2, s.Workers, "config file value survives")
	assert.Equal(t, "all", s.Policy, "profile overrides config file")
	assert.Equal(t, "yaml", s.Format, "flag overrides config file")
	assert.False(t, s.Compressed)
}

func TestHandleProfiles(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	var out bytes.Buffer
	_, done, err := handleProfiles(cfg, true, "", &out)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, out.String(), "Available profiles:")
	assert.Contains(t, out.String(), "typos")

	_, _, err = handleProfiles(cfg, false, "missing", &out)
	assert.Error(t, err)

	profile, done, err := handleProfiles(cfg, false, "testnet", &out)
	require.NoError(t, err)
	assert.False(t, done)
	assert.NotNil(t, profile)
}

func TestShouldSuppressProgressOutput(t *testing.T) {
	s := config.DefaultSettings()
	assert.False(t, shouldSuppressProgressOutput(s, true))
	assert.True(t, shouldSuppressProgressOutput(s, false))

	s.Quiet = true
	assert.True(t, shouldSuppressProgressOutput(s, true))

	s.Quiet = false
	s.Debug = true
	assert.True(t, shouldSuppressProgressOutput(s, true))
}

func TestFormatProgress(t *testing.T) {
	line := formatProgress(50, 100, 10*time.Second)
	assert.Contains(t, line, "50/100 candidates (50.0%)")
	assert.Contains(t, line, "5 keys/s")
	assert.Contains(t, line, "ETA: 10s")

	done := formatProgress(100, 100, time.Second)
	assert.Contains(t, done, "(100.0%)")
	assert.NotContains(t, done, "ETA")

	empty := formatProgress(0, 0, 0)
	assert.Contains(t, empty, "0/0 candidates")
}

func TestNewProgressPrinter_Throttles(t *testing.T) {
	var out bytes.Buffer
	progress := newProgressPrinter(&out, time.Hour)

	progress(1, 10)
	progress(2, 10)
	progress(10, 10)

	lines := strings.Count(out.String(), "\r")
	assert.Equal(t, 2, lines, "first update and the final one")
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitMatch, code)
	assert.Contains(t, stdout, "keyrecover")
}

func TestRun_HelpTopics(t *testing.T) {
	code, stdout, _ := runCLI(t, "--help", "topics")
	assert.Equal(t, exitMatch, code)
	assert.Contains(t, stdout, "wildcard")

	code, _, _ = runCLI(t, "--help", "no-such-topic")
	assert.Equal(t, exitUsage, code)
}

func TestRun_WildcardMatch(t *testing.T) {
	isolate(t)

	code, stdout, stderr := runCLI(t, "--workers", "2", hexPattern, hexTarget)
	assert.Equal(t, exitMatch, code, stderr)
	assert.Contains(t, stdout, hexRecovered)
	assert.NotContains(t, stderr, "candidates (", "no progress bar off a terminal")
}

func TestRun_NoMatch(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI(t, keyOneWIF, hexTarget)
	assert.Equal(t, exitNoMatch, code)
	assert.Contains(t, stdout, "No match found.")
}

func TestRun_JSONOutputFile(t *testing.T) {
	isolate(t)
	outPath := filepath.Join(t.TempDir(), "reports", "result.json")

	code, stdout, stderr := runCLI(t, "--format", "json", "--output", outPath, hexPattern, hexTarget)
	require.Equal(t, exitMatch, code, stderr)
	assert.Empty(t, stdout)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "matched", doc["status"])
}

func TestRun_UsageErrors(t *testing.T) {
	isolate(t)

	cases := []struct {
		name string
		args []string
	}{
		{"missing target", []string{hexPattern}},
		{"unknown flag", []string{"--bogus", hexPattern, hexTarget}},
		{"bad policy", []string{"--policy", "sometimes", hexPattern, hexTarget}},
		{"bad format", []string{"--format", "xml", hexPattern, hexTarget}},
		{"unknown profile", []string{"--profile", "nope", hexPattern, hexTarget}},
		{"bad target", []string{hexPattern, "not-an-address"}},
		{"both password flags", []string{"--password", "x", "--ask-password", hexPattern, hexTarget}},
		{"address type mismatch", []string{"--address-type", "p2wpkh", keyOneWIF, keyOneP2PKH}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tc.args...)
			assert.Equal(t, exitUsage, code)
		})
	}
}

func TestRun_ListProfiles(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI(t, "--list-profiles")
	assert.Equal(t, exitMatch, code)
	assert.Contains(t, stdout, "exhaustive")
}

func TestRun_ConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("keyrecover.yaml", []byte("defaults:\n  format: csv\n"), 0600))

	code, stdout, stderr := runCLI(t, hexPattern, hexTarget)
	require.Equal(t, exitMatch, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "Key,Target,Status"))
}
