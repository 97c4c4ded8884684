// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// FailureKind names a class of retrieval failure.
type FailureKind string

const (
	FailureNetwork                 FailureKind = "network"
	FailureFormat                  FailureKind = "format"
	FailureUnsupportedJurisdiction FailureKind = "unsupported_jurisdiction"
	FailureBackend                 FailureKind = "backend"
	FailureMissingInput            FailureKind = "missing_input"
)

// Failure is the error returned across component boundaries. Components
// never panic or return bare errors to their callers; they return a
// *Failure tagged with its kind.
type Failure struct {
	Kind    FailureKind
	Op      string
	Message string
	Err     error
}

// NewFailure builds a Failure with a formatted message.
func NewFailure(kind FailureKind, op, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapFailure builds a Failure around err. The message is err's text.
func WrapFailure(kind FailureKind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Message: err.Error(), Err: err}
}

func (f *Failure) Error() string {
	if f.Op == "" {
		return f.Message
	}
	return f.Op + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}
