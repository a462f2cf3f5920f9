// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"fmt"

	"keyrecover/internal/config"
	"keyrecover/internal/derive"
	"keyrecover/internal/generator"
	"keyrecover/internal/keyspace"
	"keyrecover/internal/security"

	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrAddressTypeMismatch is returned when the requested address type can
	// never produce the target address
	ErrAddressTypeMismatch = errors.New("address type does not match target")

	// ErrPlaceholderInAlphabet is returned when the placeholder is also a
	// symbol keys are written with, so literal and unknown positions collide
	ErrPlaceholderInAlphabet = errors.New("placeholder is a symbol of the alphabet")
)

// SpacePlan is a candidate space together with what it was built from
type SpacePlan struct {
	Space    generator.Space
	KeySpace keyspace.KeySpace
	Pattern  string // cleaned input
	Mode     string
}

// BuildSpace classifies input and builds the candidate space for the
// configured mode. encrypted selects the BIP38 key space for 6P... keys.
func BuildSpace(input string, s config.Settings, encrypted bool) (*SpacePlan, error) {
	cleaned := keyspace.Clean(input)

	var (
		ks  keyspace.KeySpace
		err error
	)
	if encrypted && keyspace.LooksEncrypted(cleaned) {
		ks = keyspace.EncryptedKeySpace()
	} else if ks, err = keyspace.Classify(cleaned); err != nil {
		return nil, err
	}

	var placeholder byte
	if len(s.Placeholder) == 1 {
		placeholder = s.Placeholder[0]
	}
	if ks.Family == keyspace.FamilyHex {
		keep := placeholder
		if s.Mode == config.ModeFuzzy {
			keep = 0
		}
		cleaned = lowerHex(cleaned, keep)
	}

	plan := &SpacePlan{KeySpace: ks, Pattern: cleaned, Mode: s.Mode}

	switch s.Mode {
	case config.ModeFuzzy:
		space, err := generator.NewFuzzySpace(cleaned, generator.DefaultConfusionTable)
		if err != nil {
			return nil, err
		}
		plan.Space = space

	case config.ModeWildcard, "":
		if len(s.Placeholder) != 1 {
			return nil, fmt.Errorf("placeholder must be a single character, got '%s'", s.Placeholder)
		}
		alphabet, err := keyspace.ParseAlphabet(s.Alphabet, ks)
		if err != nil {
			return nil, err
		}
		if alphabet.Contains(placeholder) {
			return nil, fmt.Errorf("%w: '%c' in %s", ErrPlaceholderInAlphabet, placeholder, alphabet)
		}
		space, err := generator.NewCombinationSpace(keyspace.NewPattern(cleaned, placeholder), alphabet)
		if err != nil {
			return nil, err
		}
		plan.Space = space
		plan.Mode = config.ModeWildcard

	default:
		return nil, fmt.Errorf("unknown mode '%s'", s.Mode)
	}
	return plan, nil
}

// lowerHex folds A-F to a-f, leaving the placeholder untouched
func lowerHex(raw string, placeholder byte) string {
	b := []byte(raw)
	for i, c := range b {
		if c >= 'A' && c <= 'F' && c != placeholder {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// DeriverPlan is a configured deriver and the decoded target
type DeriverPlan struct {
	Deriver     *derive.BitcoinDeriver
	Target      derive.Target
	AddressType derive.AddressType
	Params      *chaincfg.Params
}

// BuildDeriver resolves network, target and address type and constructs the
// deriver. An auto address type is inferred from the target.
func BuildDeriver(s config.Settings, target string, passphrase *security.Passphrase) (*DeriverPlan, error) {
	params, err := derive.ParseNetwork(s.Network)
	if err != nil {
		return nil, err
	}

	t, err := derive.ParseTarget(target, params)
	if err != nil {
		return nil, err
	}

	at, err := derive.ParseAddressType(s.AddressType)
	if err != nil {
		return nil, err
	}
	if at == derive.AddressTypeAuto {
		at = t.AddressType
	} else if at != t.AddressType {
		return nil, fmt.Errorf("%w: %s target cannot be reached with %s", ErrAddressTypeMismatch, t.AddressType, at)
	}

	return &DeriverPlan{
		Deriver: derive.NewBitcoinDeriver(derive.Options{
			Params:      params,
			AddressType: at,
			Compressed:  s.Compressed,
			Passphrase:  passphrase,
		}),
		Target:      t,
		AddressType: at,
		Params:      params,
	}, nil
}
