// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package keyspace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyAlphabet is returned when an alphabet has no symbols
var ErrEmptyAlphabet = errors.New("alphabet is empty")

// Canonical alphabets
var (
	HexAlphabet    = NewAlphabet("0123456789abcdef")
	Base58Alphabet = NewAlphabet("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")
)

// Alphabet is an ordered, deduplicated set of single-byte symbols
type Alphabet struct {
	symbols []byte
}

// NewAlphabet builds an alphabet from symbols, keeping the first occurrence
// of each byte
func NewAlphabet(symbols string) Alphabet {
	var seen [256]bool
	out := make([]byte, 0, len(symbols))
	for i := 0; i < len(symbols); i++ {
		b := symbols[i]
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return Alphabet{symbols: out}
}

// Len returns the number of symbols
func (a Alphabet) Len() int {
	return len(a.symbols)
}

// Symbol returns the i-th symbol
func (a Alphabet) Symbol(i int) byte {
	return a.symbols[i]
}

// Symbols returns a copy of the symbol sequence
func (a Alphabet) Symbols() []byte {
	out := make([]byte, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Contains reports whether b is one of the symbols
func (a Alphabet) Contains(b byte) bool {
	for _, s := range a.symbols {
		if s == b {
			return true
		}
	}
	return false
}

func (a Alphabet) String() string {
	return string(a.symbols)
}

// ParseAlphabet resolves an alphabet selection. "auto" (or empty) uses the
// alphabet of the classified key space, "hex" and "base58" select the
// canonical alphabets, anything else is taken as a literal symbol list.
func ParseAlphabet(name string, ks KeySpace) (Alphabet, error) {
	var a Alphabet
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		a = ks.Alphabet
	case "hex":
		a = HexAlphabet
	case "base58":
		a = Base58Alphabet
	default:
		a = NewAlphabet(name)
	}
	if a.Len() == 0 {
		return Alphabet{}, fmt.Errorf("%w: selection %q", ErrEmptyAlphabet, name)
	}
	return a, nil
}
