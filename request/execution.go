// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/gogama/apiclient/transient"
	"github.com/google/uuid"
)

// An Execution represents the state of one logical request moving
// through the client pipeline.
//
// Retry and timeout policies receive the Execution after every
// attempt. They should treat its fields as read-only; the execution
// state is vital to the correct functioning of the pipeline.
type Execution struct {
	// ID uniquely identifies the logical request. It is attached to
	// every log line the client writes about the request.
	ID string

	// Request is the request handed to the client. It is never nil.
	Request *Request

	// Prepared is the request produced by the most recent run of the
	// plug-in prepare chain. It is nil until preparation finishes.
	Prepared *Request

	// State is the current pipeline state.
	State State

	// Start is the time the execution started.
	Start time.Time

	// End is the time the terminal callback fired. It contains the
	// zero value until then.
	End time.Time

	// Attempt is the zero-based number of the current transport
	// attempt. Both retries and resolved re-sends increment it.
	Attempt int

	// AttemptTimeouts counts attempts which ended in a timeout.
	AttemptTimeouts int

	// Response is the response received in the most recent attempt.
	// It is nil if the attempt ended in a transport error.
	Response *Response

	// Err is the raw transport error from the most recent attempt,
	// before it is mapped into the apierr taxonomy.
	Err error
}

// NewExecution returns a fresh execution for r, in the Queued state.
func NewExecution(r *Request) *Execution {
	return &Execution{
		ID:      uuid.NewString(),
		Request: r,
		State:   Queued,
	}
}

// StatusCode is the status of the latest response, or zero when the
// latest attempt produced none.
func (e *Execution) StatusCode() int {
	if r := e.Response; r != nil {
		return r.StatusCode
	}
	return 0
}

// Header is the header of the latest response. Without a response it
// is nil, which still answers Get and Values.
func (e *Execution) Header() http.Header {
	if r := e.Response; r != nil {
		return r.Header
	}
	return nil
}

// Duration measures the execution: zero before Start is set, up to now
// while it runs, and up to End once the outcome has been delivered.
func (e *Execution) Duration() time.Duration {
	switch {
	case e.Start.IsZero():
		return 0
	case e.End.IsZero():
		return time.Since(e.Start)
	default:
		return e.End.Sub(e.Start)
	}
}

// Started reports whether Start is set.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended reports whether the outcome has been delivered.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout reports whether the latest attempt failed by timing out.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}
