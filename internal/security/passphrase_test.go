// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"fmt"
	"testing"
)

func TestNewPassphrase_StoresValue(t *testing.T) {
	p := NewPassphrase("TestingOneTwoThree")
	if string(p.Bytes()) != "TestingOneTwoThree" {
		t.Errorf("expected stored passphrase, got %q", p.Bytes())
	}
	if p.Empty() {
		t.Error("expected non-empty passphrase")
	}
}

func TestPassphrase_StringIsRedacted(t *testing.T) {
	p := NewPassphrase("secret")
	if got := fmt.Sprintf("%v", p); got != "[REDACTED]" {
		t.Errorf("expected redacted output, got %q", got)
	}
	if got := NewPassphrase("").String(); got != "" {
		t.Errorf("expected empty output for empty passphrase, got %q", got)
	}
}

func TestPassphrase_Clear_ZeroesBuffer(t *testing.T) {
	buf := []byte("sensitive")
	p := NewPassphraseBytes(buf)
	p.Clear()

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
	if !p.Empty() {
		t.Error("expected empty passphrase after Clear")
	}
	// second Clear must not panic
	p.Clear()
}

func TestPassphrase_NilReceiver(t *testing.T) {
	var p *Passphrase
	if p.Bytes() != nil {
		t.Error("nil passphrase should have nil bytes")
	}
	if !p.Empty() {
		t.Error("nil passphrase should be empty")
	}
	p.Clear()
}
