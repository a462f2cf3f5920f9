// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package derive

import (
	"errors"
	"fmt"
)

// Per-candidate derivation failures. None of them aborts a search.
var (
	ErrInvalidFormat    = errors.New("invalid key format")
	ErrInvalidKey       = errors.New("invalid key material")
	ErrDecryptionFailed = errors.New("decryption failed")

	errUnclassified = errors.New("derivation failed")
)

// Kind classifies a derivation failure
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidFormat
	KindInvalidKey
	KindDecryptionFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid_format"
	case KindInvalidKey:
		return "invalid_key"
	case KindDecryptionFailed:
		return "decryption_failed"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidFormat:
		return ErrInvalidFormat
	case KindInvalidKey:
		return ErrInvalidKey
	case KindDecryptionFailed:
		return ErrDecryptionFailed
	default:
		return errUnclassified
	}
}

// Error wraps a derivation failure with its kind. errors.Is matches both the
// kind's sentinel and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func newError(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of a derivation failure, or KindUnknown
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return KindInvalidFormat
	case errors.Is(err, ErrInvalidKey):
		return KindInvalidKey
	case errors.Is(err, ErrDecryptionFailed):
		return KindDecryptionFailed
	}
	return KindUnknown
}
