// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierr

import "fmt"

// A Reason classifies a SerializationError.
type Reason int

const (
	// Deserialization means the body could not be turned into a
	// generic document.
	Deserialization Reason = iota
	// Parsing means the document could not be turned into the typed
	// result.
	Parsing
	// KeyNotFound means the parser's key path was missing from the
	// document.
	KeyNotFound
	// NullObject means the document, or the value at the key path,
	// was null.
	NullObject
)

var reasonNames = []string{"deserialization", "parsing", "key_not_found", "null_object"}

// String returns the reason name.
func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// A SerializationError is a failure to deserialize or parse a
// successful response. Serialization errors are never retried.
type SerializationError struct {
	Reason Reason
	Cause  error
}

// Serialization returns a SerializationError with the given reason and
// cause.
func Serialization(reason Reason, cause error) *SerializationError {
	return &SerializationError{Reason: reason, Cause: cause}
}

func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("apiclient: serialization: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("apiclient: serialization: %s", e.Reason)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// An ExecutorError wraps an opaque transport failure.
type ExecutorError struct {
	Err error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("apiclient: executor: %v", e.Err)
}

func (e *ExecutorError) Unwrap() error {
	return e.Err
}

// An UndefinedError wraps an error from outside the taxonomy, for
// example one returned by a plug-in.
type UndefinedError struct {
	Err error
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("apiclient: undefined: %v", e.Err)
}

func (e *UndefinedError) Unwrap() error {
	return e.Err
}

// A ResolutionError is delivered when a plug-in tried to recover from
// Err and failed with Cause. Both are reachable with errors.Is and
// errors.As.
type ResolutionError struct {
	Err   error
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v (recovery failed: %v)", e.Err, e.Cause)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{e.Err, e.Cause}
}
