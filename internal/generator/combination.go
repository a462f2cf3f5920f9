// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"

	"keyrecover/internal/keyspace"
)

// CombinationSpace expands every placeholder of a pattern over an alphabet
type CombinationSpace struct {
	*productSpace
	pattern  keyspace.Pattern
	alphabet keyspace.Alphabet
}

// NewCombinationSpace builds the lazy candidate space for pattern. The
// leftmost placeholder varies slowest and symbols follow alphabet order.
func NewCombinationSpace(pattern keyspace.Pattern, alphabet keyspace.Alphabet) (*CombinationSpace, error) {
	if pattern.PlaceholderCount() > 0 && alphabet.Len() == 0 {
		return nil, fmt.Errorf("cannot expand pattern: %w", keyspace.ErrEmptyAlphabet)
	}

	positions := pattern.Positions()
	symbols := alphabet.Symbols()
	options := make([][]byte, len(positions))
	for i := range options {
		options[i] = symbols
	}

	ps, err := newProductSpace(pattern.String(), positions, options)
	if err != nil {
		return nil, err
	}
	return &CombinationSpace{productSpace: ps, pattern: pattern, alphabet: alphabet}, nil
}

// Pattern returns the source pattern
func (s *CombinationSpace) Pattern() keyspace.Pattern {
	return s.pattern
}

// Expand returns all alphabet^k candidates of pattern in generation order
func Expand(pattern keyspace.Pattern, alphabet keyspace.Alphabet) ([]string, error) {
	space, err := NewCombinationSpace(pattern, alphabet)
	if err != nil {
		return nil, err
	}
	return space.enumerate(), nil
}
