// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package keyspace

// DefaultPlaceholder marks an unknown character in a pattern
const DefaultPlaceholder byte = '*'

// Pattern is a key with zero or more unknown positions. It is immutable
// once created.
type Pattern struct {
	raw         string
	placeholder byte
	positions   []int
}

// NewPattern records the positions of placeholder in raw
func NewPattern(raw string, placeholder byte) Pattern {
	var positions []int
	for i := 0; i < len(raw); i++ {
		if raw[i] == placeholder {
			positions = append(positions, i)
		}
	}
	return Pattern{raw: raw, placeholder: placeholder, positions: positions}
}

func (p Pattern) String() string {
	return p.raw
}

// Len returns the pattern length in bytes, placeholders included
func (p Pattern) Len() int {
	return len(p.raw)
}

// Placeholder returns the marker byte
func (p Pattern) Placeholder() byte {
	return p.placeholder
}

// PlaceholderCount returns how many positions are unknown
func (p Pattern) PlaceholderCount() int {
	return len(p.positions)
}

// Positions returns the unknown positions, left to right
func (p Pattern) Positions() []int {
	out := make([]int, len(p.positions))
	copy(out, p.positions)
	return out
}
