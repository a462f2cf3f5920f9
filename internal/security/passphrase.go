// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import "sync"

// Passphrase holds a decryption passphrase in a mutable buffer so it can be
// zeroed once a search finishes.
//
// Limitations: the garbage collector may copy memory, and any conversion to
// string creates an immutable copy that Clear cannot reach. This narrows the
// exposure window; it is not a guarantee.
type Passphrase struct {
	mu   sync.RWMutex
	data []byte
}

// NewPassphrase copies s into a private buffer
func NewPassphrase(s string) *Passphrase {
	data := make([]byte, len(s))
	copy(data, s)
	return &Passphrase{data: data}
}

// NewPassphraseBytes takes ownership of b
func NewPassphraseBytes(b []byte) *Passphrase {
	return &Passphrase{data: b}
}

// Bytes returns the live buffer. Callers must not retain or modify it.
// A nil Passphrase yields nil.
func (p *Passphrase) Bytes() []byte {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// Empty reports whether no passphrase is held
func (p *Passphrase) Empty() bool {
	return len(p.Bytes()) == 0
}

// String never reveals the value, so a Passphrase is safe to log
func (p *Passphrase) String() string {
	if p.Empty() {
		return ""
	}
	return "[REDACTED]"
}

// Clear zeroes and drops the buffer. It is safe to call more than once.
func (p *Passphrase) Clear() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.data {
		p.data[i] = 0
	}
	p.data = nil
}
