// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can distinguish configuration mistakes from
// authentication failures, broken connections, and failing queries without string matching.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// and plays well with the standard errors.Is/errors.As machinery.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Configuration indicates missing or invalid parameters, detected before any I/O.
	Configuration Kind = "configuration"
	// Authentication indicates credential decryption or driver authentication failure.
	Authentication Kind = "authentication"
	// Connection indicates session open/close or use-while-disconnected failure.
	Connection Kind = "connection"
	// Query indicates SQL execution or result-shaping failure.
	Query Kind = "query"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf formats a message with fmt.Sprintf semantics.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err or any error in its chain is an *E of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
