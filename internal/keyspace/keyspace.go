// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package keyspace

import (
	"errors"
	"fmt"
	"strings"
)

// Key lengths recognised by Classify
const (
	HexKeyLength   = 64
	WIFKeyLength   = 52
	BIP38KeyLength = 58
)

// ErrInvalidKeyLength is returned when a raw key matches no known encoding
var ErrInvalidKeyLength = errors.New("invalid key length")

// Family identifies how a private key is encoded
type Family int

const (
	FamilyUnknown Family = iota
	FamilyHex            // 32 raw bytes as 64 hex digits
	FamilyWIF            // base58check wallet import format
	FamilyBIP38          // passphrase-encrypted WIF (6P...)
)

// String returns the family name
func (f Family) String() string {
	switch f {
	case FamilyHex:
		return "hex"
	case FamilyWIF:
		return "wif"
	case FamilyBIP38:
		return "bip38"
	default:
		return "unknown"
	}
}

// KeySpace pairs an encoding family with the alphabet its symbols come from
type KeySpace struct {
	Family   Family
	Alphabet Alphabet
}

// Classify determines the encoding family of a raw key from its length alone.
// The content is not validated; placeholders count towards the length.
func Classify(raw string) (KeySpace, error) {
	switch len(raw) {
	case HexKeyLength:
		return KeySpace{Family: FamilyHex, Alphabet: HexAlphabet}, nil
	case WIFKeyLength:
		return KeySpace{Family: FamilyWIF, Alphabet: Base58Alphabet}, nil
	default:
		return KeySpace{}, fmt.Errorf("%w: %d characters (expected %d for hex or %d for WIF)",
			ErrInvalidKeyLength, len(raw), HexKeyLength, WIFKeyLength)
	}
}

// LooksEncrypted reports whether raw has the shape of a BIP38 encrypted key
func LooksEncrypted(raw string) bool {
	return len(raw) == BIP38KeyLength && strings.HasPrefix(raw, "6P")
}

// EncryptedKeySpace is the key space of a BIP38 encrypted key. Classify never
// returns it; callers opt in when a passphrase is available.
func EncryptedKeySpace() KeySpace {
	return KeySpace{Family: FamilyBIP38, Alphabet: Base58Alphabet}
}

// Clean strips surrounding whitespace and one layer of matching quotes
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	for _, q := range []string{`"`, `'`, "`"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[1 : len(s)-1])
			break
		}
	}
	return s
}
