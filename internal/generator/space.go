// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrSpaceTooLarge is returned when a candidate count does not fit in a uint64.
// There is no policy cap below that; callers size their own patterns.
var ErrSpaceTooLarge = errors.New("candidate space exceeds 2^64 entries")

// Space is an indexed, finite candidate sequence. At must be safe for
// concurrent use and return the same string for the same index.
type Space interface {
	Len() uint64
	At(i uint64) string
}

// productSpace is the cross product of per-position option sets laid over a
// template. The leftmost variable position is the most significant digit.
type productSpace struct {
	template  []byte
	positions []int
	options   [][]byte
	size      uint64
}

func newProductSpace(template string, positions []int, options [][]byte) (*productSpace, error) {
	size := uint64(1)
	for i, opts := range options {
		hi, lo := bits.Mul64(size, uint64(len(opts)))
		if hi != 0 {
			return nil, fmt.Errorf("%w: overflow at position %d", ErrSpaceTooLarge, positions[i])
		}
		size = lo
	}
	return &productSpace{
		template:  []byte(template),
		positions: positions,
		options:   options,
		size:      size,
	}, nil
}

func (s *productSpace) Len() uint64 {
	return s.size
}

// At decodes i as a mixed-radix number, rightmost position fastest
func (s *productSpace) At(i uint64) string {
	buf := make([]byte, len(s.template))
	copy(buf, s.template)
	for j := len(s.positions) - 1; j >= 0; j-- {
		radix := uint64(len(s.options[j]))
		buf[s.positions[j]] = s.options[j][i%radix]
		i /= radix
	}
	return string(buf)
}

// enumerate materialises every candidate depth-first. cursor is the explicit
// stack: cursor[d] is the next option to try at depth d.
func (s *productSpace) enumerate() []string {
	k := len(s.positions)
	if k == 0 {
		return []string{string(s.template)}
	}

	out := make([]string, 0, s.size)
	buf := make([]byte, len(s.template))
	copy(buf, s.template)

	cursor := make([]int, k)
	depth := 0
	for depth >= 0 {
		if cursor[depth] == len(s.options[depth]) {
			cursor[depth] = 0
			depth--
			if depth >= 0 {
				cursor[depth]++
			}
			continue
		}
		buf[s.positions[depth]] = s.options[depth][cursor[depth]]
		if depth == k-1 {
			out = append(out, string(buf))
			cursor[depth]++
			continue
		}
		depth++
	}
	return out
}

// Count returns n^k or ErrSpaceTooLarge
func Count(n, k int) (uint64, error) {
	size := uint64(1)
	for i := 0; i < k; i++ {
		hi, lo := bits.Mul64(size, uint64(n))
		if hi != 0 {
			return 0, fmt.Errorf("%w: %d^%d", ErrSpaceTooLarge, n, k)
		}
		size = lo
	}
	return size, nil
}

// Candidates adapts an explicit list to the Space interface
type Candidates []string

func (c Candidates) Len() uint64 {
	return uint64(len(c))
}

func (c Candidates) At(i uint64) string {
	return c[i]
}
