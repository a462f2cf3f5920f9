// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"keyrecover/internal/config"
	"keyrecover/internal/derive"
	"keyrecover/internal/generator"
	"keyrecover/internal/keyspace"
	"keyrecover/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hexFixturePattern   = "dc7546c9cef4e980c*63a4cb42efede82c40c0e5fce55c4a7304f32747e029e1"
	hexFixtureRecovered = "dc7546c9cef4e980c563a4cb42efede82c40c0e5fce55c4a7304f32747e029e1"
	hexFixtureAddress   = "1JwvWezRrU2yDh1eSwWezyrx3SyKYmtFDQ"

	keyOneWIF    = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"
	keyOneP2PKH  = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
	keyOneP2WPKH = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"

	bip38Compressed = "6PYNKZ1EAgYgmQfmNVamxyXVWHzK5s6DGhwP4J5o44cvXdoY7sRzhtpUeo"
	bip38Address    = "164MQi977u9GUteHr4EPH27VkkdxmfCvGW"
)

func TestBuildSpace_Wildcard(t *testing.T) {
	plan, err := BuildSpace(`"`+hexFixturePattern+`"`, config.DefaultSettings(), false)
	require.NoError(t, err)

	assert.Equal(t, keyspace.FamilyHex, plan.KeySpace.Family)
	assert.Equal(t, hexFixturePattern, plan.Pattern, "quotes are stripped")
	assert.Equal(t, uint64(16), plan.Space.Len())
	assert.Equal(t, config.ModeWildcard, plan.Mode)
}

func TestBuildSpace_InvalidLength(t *testing.T) {
	_, err := BuildSpace("abc*", config.DefaultSettings(), false)
	assert.ErrorIs(t, err, keyspace.ErrInvalidKeyLength)
}

func TestBuildSpace_Fuzzy(t *testing.T) {
	s := config.DefaultSettings()
	s.Mode = config.ModeFuzzy

	plan, err := BuildSpace(keyOneWIF, s, false)
	require.NoError(t, err)

	want, err := generator.Fuzzy(keyOneWIF, generator.DefaultConfusionTable)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(want)), plan.Space.Len())
	assert.Equal(t, keyOneWIF, plan.Space.At(0), "the unmodified key comes first")
}

func TestBuildSpace_Encrypted(t *testing.T) {
	plan, err := BuildSpace(bip38Compressed, config.DefaultSettings(), true)
	require.NoError(t, err)
	assert.Equal(t, keyspace.FamilyBIP38, plan.KeySpace.Family)

	_, err = BuildSpace(bip38Compressed, config.DefaultSettings(), false)
	assert.ErrorIs(t, err, keyspace.ErrInvalidKeyLength, "58 characters without a passphrase")
}

func TestBuildSpace_CustomAlphabetAndPlaceholder(t *testing.T) {
	s := config.DefaultSettings()
	s.Placeholder = "?"
	s.Alphabet = "c5"

	plan, err := BuildSpace(strings.Replace(hexFixturePattern, "*", "?", 1), s, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), plan.Space.Len())
	assert.Equal(t, hexFixtureRecovered, plan.Space.At(1))
}

func TestBuildSpace_UppercaseHex(t *testing.T) {
	plan, err := BuildSpace(strings.ToUpper(hexFixturePattern), config.DefaultSettings(), false)
	require.NoError(t, err)
	assert.Equal(t, hexFixturePattern, plan.Pattern)

	// A placeholder among A-F survives the case fold
	s := config.DefaultSettings()
	s.Placeholder = "F"
	plan, err = BuildSpace(strings.Replace(hexFixturePattern, "*", "F", 1), s, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), plan.Space.Len())
	assert.Equal(t, hexFixtureRecovered, plan.Space.At(5))
}

func TestBuildSpace_PlaceholderInAlphabet(t *testing.T) {
	s := config.DefaultSettings()
	s.Placeholder = "a"
	_, err := BuildSpace(hexFixtureRecovered, s, false)
	assert.ErrorIs(t, err, ErrPlaceholderInAlphabet)

	s = config.DefaultSettings()
	s.Alphabet = "*5"
	_, err = BuildSpace(hexFixturePattern, s, false)
	assert.ErrorIs(t, err, ErrPlaceholderInAlphabet)

	s = config.DefaultSettings()
	s.Placeholder = "K"
	_, err = BuildSpace(keyOneWIF, s, false)
	assert.ErrorIs(t, err, ErrPlaceholderInAlphabet)
}

func TestBuildDeriver(t *testing.T) {
	plan, err := BuildDeriver(config.DefaultSettings(), keyOneP2WPKH, nil)
	require.NoError(t, err)
	assert.Equal(t, derive.AddressTypeP2WPKH, plan.AddressType, "inferred from target")

	addr, err := plan.Deriver.Derive(keyOneWIF)
	require.NoError(t, err)
	assert.Equal(t, keyOneP2WPKH, addr)

	s := config.DefaultSettings()
	s.AddressType = "p2pkh"
	_, err = BuildDeriver(s, keyOneP2WPKH, nil)
	assert.ErrorIs(t, err, ErrAddressTypeMismatch)

	s = config.DefaultSettings()
	s.Network = "testnet"
	_, err = BuildDeriver(s, keyOneP2PKH, nil)
	assert.ErrorIs(t, err, derive.ErrUnsupportedTarget)
}

func TestRecover_HexFixture(t *testing.T) {
	result, err := Recover(context.Background(), RecoverConfig{
		Input:    hexFixturePattern,
		Target:   hexFixtureAddress,
		Settings: config.DefaultSettings(),
	})
	require.NoError(t, err)

	assert.True(t, result.Outcome.Matched())
	assert.Equal(t, []string{hexFixtureRecovered}, result.Report.Matches)
	assert.Equal(t, "hex", result.Report.Family)
	assert.Equal(t, "p2pkh", result.Report.AddressType)
	assert.Equal(t, "mainnet", result.Report.Network)
	assert.Equal(t, uint64(16), result.Report.Total)
}

func TestRecover_WIFNoMatch(t *testing.T) {
	result, err := Recover(context.Background(), RecoverConfig{
		Input:    keyOneWIF,
		Target:   hexFixtureAddress,
		Settings: config.DefaultSettings(),
	})
	require.NoError(t, err)
	assert.False(t, result.Report.Matched())
	assert.Equal(t, uint64(1), result.Report.Tested)
}

func TestRecover_ScanAllDebugTrace(t *testing.T) {
	var trace bytes.Buffer
	s := config.DefaultSettings()
	s.Policy = "all"
	s.Debug = true

	result, err := Recover(context.Background(), RecoverConfig{
		Input:       hexFixturePattern,
		Target:      hexFixtureAddress,
		Settings:    s,
		DebugWriter: &trace,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(16), result.Outcome.Tested)
	assert.Equal(t, "all", result.Report.Policy)

	out := trace.String()
	for _, want := range []string{"build_space", "build_deriver", "search completed", `"component":"searcher"`} {
		assert.Contains(t, out, want)
	}
}

func TestRecover_FuzzyHexIgnoresCaseVariants(t *testing.T) {
	// Only the final 'c' is confusable, with 'C'
	key := strings.Repeat("3", 63) + "c"
	target, err := derive.NewBitcoinDeriver(derive.Options{Compressed: true}).Derive(key)
	require.NoError(t, err)

	s := config.DefaultSettings()
	s.Mode = config.ModeFuzzy
	s.Policy = "all"

	result, err := Recover(context.Background(), RecoverConfig{Input: key, Target: target, Settings: s})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Outcome.Total)
	assert.Equal(t, []string{key}, result.Outcome.Matches)
	assert.Equal(t, uint64(1), result.Outcome.FailuresByKind[derive.KindInvalidFormat.String()])
}

func TestRecover_UppercaseHexPattern(t *testing.T) {
	result, err := Recover(context.Background(), RecoverConfig{
		Input:    strings.ToUpper(hexFixturePattern),
		Target:   hexFixtureAddress,
		Settings: config.DefaultSettings(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{hexFixtureRecovered}, result.Report.Matches)
}

func TestRecover_BIP38Wildcard(t *testing.T) {
	// Wrong candidates fail the Base58Check checksum before any scrypt work
	pattern := bip38Compressed[:len(bip38Compressed)-1] + "*"

	result, err := Recover(context.Background(), RecoverConfig{
		Input:      pattern,
		Target:     bip38Address,
		Settings:   config.DefaultSettings(),
		Passphrase: security.NewPassphrase("TestingOneTwoThree"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{bip38Compressed}, result.Report.Matches)
	assert.Equal(t, "bip38", result.Report.Family)
}

func TestRecover_InputErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		target string
		mutate func(*config.Settings)
	}{
		{"bad length", "abc", keyOneP2PKH, nil},
		{"bad target", keyOneWIF, "not-an-address", nil},
		{"bad policy", keyOneWIF, keyOneP2PKH, func(s *config.Settings) { s.Policy = "some" }},
		{"bad mode", keyOneWIF, keyOneP2PKH, func(s *config.Settings) { s.Mode = "psychic" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := config.DefaultSettings()
			if tc.mutate != nil {
				tc.mutate(&s)
			}
			_, err := Recover(context.Background(), RecoverConfig{Input: tc.input, Target: tc.target, Settings: s})
			assert.Error(t, err)
		})
	}
}
