// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gogama/apiclient/transient"
)

var statusTable = map[int]Code{
	http.StatusBadRequest:            BadRequest,
	http.StatusUnauthorized:          Unauthorized,
	http.StatusForbidden:             Forbidden,
	http.StatusNotFound:              NotFound,
	http.StatusMethodNotAllowed:      MethodNotAllowed,
	http.StatusRequestTimeout:        RequestTimeout,
	http.StatusConflict:              Conflict,
	http.StatusGone:                  Gone,
	http.StatusRequestEntityTooLarge: PayloadTooLarge,
	http.StatusUnprocessableEntity:   UnprocessableEntity,
	http.StatusTooManyRequests:       TooManyRequests,
	http.StatusInternalServerError:   InternalServerError,
	http.StatusNotImplemented:        NotImplemented,
	http.StatusBadGateway:            BadGateway,
	http.StatusServiceUnavailable:    ServiceUnavailable,
	http.StatusGatewayTimeout:        GatewayTimeout,
}

// FromStatus looks statusCode up in the status table. It returns false
// for codes the table does not map, including every 2XX code.
func FromStatus(statusCode int, body []byte) (*NetworkError, bool) {
	code, ok := statusTable[statusCode]
	if !ok {
		return nil, false
	}
	return &NetworkError{Code: code, StatusCode: statusCode, Body: body}, true
}

// Status maps any status code outside [200,300) to a network error. It
// is total: codes missing from the table become UnsatisfiedHeader
// errors carrying the literal code.
func Status(statusCode int, body []byte) *NetworkError {
	if ne, ok := FromStatus(statusCode, body); ok {
		return ne
	}
	ne := UnsatisfiedHeader(statusCode)
	ne.Body = body
	return ne
}

// Define maps a transport failure into the taxonomy. Cancellation
// becomes Canceled, timeouts become TimedOut, dropped connections
// become ConnectionLost, and anything else is wrapped in an
// ExecutorError. Errors already in the taxonomy pass through.
func Define(err error) error {
	if err == nil {
		return nil
	}
	if inTaxonomy(err) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return &NetworkError{Code: Canceled, Err: err}
	}
	switch transient.Categorize(err) {
	case transient.Timeout:
		return &NetworkError{Code: TimedOut, Err: err}
	case transient.ConnRefused, transient.ConnReset, transient.ConnAborted, transient.ConnClosed:
		return &NetworkError{Code: ConnectionLost, Err: err}
	}
	return &ExecutorError{Err: err}
}

// Wrap returns err unchanged if it is already part of the taxonomy, and
// wraps it in an UndefinedError otherwise.
func Wrap(err error) error {
	if err == nil || inTaxonomy(err) {
		return err
	}
	return &UndefinedError{Err: err}
}

func inTaxonomy(err error) bool {
	switch err.(type) {
	case *NetworkError, *SerializationError, *ExecutorError, *UndefinedError, *ResolutionError:
		return true
	}
	return false
}
