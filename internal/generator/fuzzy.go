// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"
	"sort"
	"strings"
)

// ConfusionTable maps a symbol to the symbols it is easily mistaken for.
// Every set lists the symbol itself first. The table is read-only.
type ConfusionTable struct {
	sets map[byte][]byte
}

// DefaultConfusionTable holds the visual confusions seen in handwritten and
// printed keys. Y→V is one-way.
var DefaultConfusionTable = NewConfusionTable(map[byte]string{
	'1': "lI",
	'l': "1I",
	'I': "1l",
	'0': "O",
	'O': "0",
	'B': "8",
	'8': "B",
	'S': "5",
	'5': "S",
	'v': "V",
	'V': "v",
	'2': "Z",
	'Z': "2",
	'6': "G",
	'G': "6",
	'X': "x",
	'x': "X",
	'C': "c",
	'c': "C",
	'n': "m",
	'm': "n",
	'Y': "V",
})

// NewConfusionTable builds a table from symbol → alternatives
func NewConfusionTable(alternatives map[byte]string) ConfusionTable {
	sets := make(map[byte][]byte, len(alternatives))
	for sym, alts := range alternatives {
		set := []byte{sym}
		for i := 0; i < len(alts); i++ {
			if alts[i] != sym && !containsByte(set, alts[i]) {
				set = append(set, alts[i])
			}
		}
		sets[sym] = set
	}
	return ConfusionTable{sets: sets}
}

// Set returns the confusion set of b; symbols without an entry map to themselves
func (t ConfusionTable) Set(b byte) []byte {
	if set, ok := t.sets[b]; ok {
		out := make([]byte, len(set))
		copy(out, set)
		return out
	}
	return []byte{b}
}

// Entries lists each symbol with its alternatives, sorted by symbol
func (t ConfusionTable) Entries() []string {
	keys := make([]int, 0, len(t.sets))
	for k := range t.sets {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		set := t.sets[byte(k)]
		out = append(out, fmt.Sprintf("%c → %s", set[0], strings.Join(strings.Split(string(set[1:]), ""), ",")))
	}
	return out
}

// FuzzySpace enumerates every confusable variant of a fully specified key
type FuzzySpace struct {
	*productSpace
	source string
}

// NewFuzzySpace builds the lazy variant space of key. Positions whose symbol
// has no alternatives stay fixed and do not contribute to the count.
func NewFuzzySpace(key string, table ConfusionTable) (*FuzzySpace, error) {
	var positions []int
	var options [][]byte
	for i := 0; i < len(key); i++ {
		set := table.Set(key[i])
		if len(set) < 2 {
			continue
		}
		positions = append(positions, i)
		options = append(options, set)
	}

	ps, err := newProductSpace(key, positions, options)
	if err != nil {
		return nil, err
	}
	return &FuzzySpace{productSpace: ps, source: key}, nil
}

// Source returns the key the variants were derived from
func (s *FuzzySpace) Source() string {
	return s.source
}

// Fuzzy returns every variant of key in generation order, the key itself first
func Fuzzy(key string, table ConfusionTable) ([]string, error) {
	space, err := NewFuzzySpace(key, table)
	if err != nil {
		return nil, err
	}
	return space.enumerate(), nil
}

func containsByte(set []byte, b byte) bool {
	for _, s := range set {
		if s == b {
			return true
		}
	}
	return false
}
