// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierr

import (
	"errors"
	"fmt"
)

// A Code classifies a NetworkError.
type Code int

const (
	// Unsatisfied means the status code is outside [200,300) and
	// neither a plug-in nor the status table claimed it.
	Unsatisfied Code = iota
	// Unauthorized corresponds to HTTP 401.
	Unauthorized
	// Canceled means the request was cancelled.
	Canceled
	// TimedOut means a transport attempt timed out.
	TimedOut
	// ConnectionLost means the connection was refused, reset, aborted,
	// or closed early.
	ConnectionLost
	// The remaining codes are assigned by the status table.
	BadRequest
	Forbidden
	NotFound
	MethodNotAllowed
	RequestTimeout
	Conflict
	Gone
	PayloadTooLarge
	UnprocessableEntity
	TooManyRequests
	InternalServerError
	NotImplemented
	BadGateway
	ServiceUnavailable
	GatewayTimeout
)

var codeNames = map[Code]string{
	Unsatisfied:         "unsatisfied_header",
	Unauthorized:        "unauthorized",
	Canceled:            "canceled",
	TimedOut:            "timed_out",
	ConnectionLost:      "connection_lost",
	BadRequest:          "bad_request",
	Forbidden:           "forbidden",
	NotFound:            "not_found",
	MethodNotAllowed:    "method_not_allowed",
	RequestTimeout:      "request_timeout",
	Conflict:            "conflict",
	Gone:                "gone",
	PayloadTooLarge:     "payload_too_large",
	UnprocessableEntity: "unprocessable_entity",
	TooManyRequests:     "too_many_requests",
	InternalServerError: "internal_server_error",
	NotImplemented:      "not_implemented",
	BadGateway:          "bad_gateway",
	ServiceUnavailable:  "service_unavailable",
	GatewayTimeout:      "gateway_timeout",
}

// String returns the code name.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown"
}

// A NetworkError is a failure at the network level: either the
// transport could not complete the request, or the server answered
// with an unsuccessful status code.
type NetworkError struct {
	// Code classifies the error.
	Code Code
	// StatusCode is the HTTP status code, or zero if the failure
	// happened before a response was received.
	StatusCode int
	// Body is the response body, if any.
	Body []byte
	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("apiclient: network: %s (HTTP %d)", e.Code, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("apiclient: network: %s: %v", e.Code, e.Err)
	default:
		return fmt.Sprintf("apiclient: network: %s", e.Code)
	}
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *NetworkError with the same code.
// This makes the sentinel values usable with errors.Is. The status
// code is compared only for Unsatisfied sentinels which carry one.
func (e *NetworkError) Is(target error) bool {
	t, ok := target.(*NetworkError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// Sentinel network errors for use with errors.Is.
var (
	ErrUnauthorized   = &NetworkError{Code: Unauthorized}
	ErrCanceled       = &NetworkError{Code: Canceled}
	ErrTimedOut       = &NetworkError{Code: TimedOut}
	ErrConnectionLost = &NetworkError{Code: ConnectionLost}
	ErrUnsatisfied    = &NetworkError{Code: Unsatisfied}
)

// NewCanceled returns a fresh canceled network error.
func NewCanceled() *NetworkError {
	return &NetworkError{Code: Canceled}
}

// UnsatisfiedHeader returns the error for a status code that nothing
// else claimed. It carries the literal status code received.
func UnsatisfiedHeader(statusCode int) *NetworkError {
	return &NetworkError{Code: Unsatisfied, StatusCode: statusCode}
}

// CodeOf returns the network code of err, and whether err is (or
// wraps) a *NetworkError at all.
func CodeOf(err error) (Code, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Code, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is an unauthorized network error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsCanceled reports whether err is a canceled network error.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}
