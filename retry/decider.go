// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"time"

	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/request"
	"github.com/gogama/apiclient/transient"
)

// A Decider looks at an execution whose latest attempt failed
// validation and reports whether the prepared request should be sent
// again. Returning false hands the failure to plug-in resolution.
//
// Deciders are consulted concurrently for different executions, so
// implementations must be safe for concurrent use.
type Decider interface {
	Decide(e *request.Execution) bool
}

// DeciderFunc adapts an ordinary function to Decider. It also offers
// And and Or to combine deciders.
type DeciderFunc func(e *request.Execution) bool

// Decide calls f(e).
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And returns a decider which retries only when both f and g do. g is
// not consulted when f refuses.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or returns a decider which retries when either f or g does. g is not
// consulted when f agrees.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// TransientErr retries when the latest attempt ended in a transport
// error that transient.Categorize does not classify as Not. An attempt
// which produced a response is never transient.
var TransientErr DeciderFunc = func(e *request.Execution) bool {
	return transient.Is(e.Err)
}

// Idempotent retries requests whose method is idempotent under RFC
// 7231, section 4.2.2. An empty method counts as GET.
var Idempotent DeciderFunc = func(e *request.Execution) bool {
	if e.Request == nil {
		return false
	}
	switch e.Request.Method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace,
		http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Times allows n more attempts after the first. Re-sends after a
// resolution count as attempts too.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before allows retries until d has elapsed since the execution
// started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode retries when the latest response carries one of codes.
func StatusCode(codes ...int) DeciderFunc {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(e *request.Execution) bool {
		if e.Response == nil {
			return false
		}
		_, ok := set[e.Response.StatusCode]
		return ok
	}
}

// Code retries when the latest attempt maps to a network error with
// one of codes. Both unsuccessful responses and transport failures are
// mapped, so Code(apierr.TimedOut, apierr.ServiceUnavailable) covers a
// timed out attempt and a 503 alike.
func Code(codes ...apierr.Code) DeciderFunc {
	set := make(map[apierr.Code]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(e *request.Execution) bool {
		var err error
		switch {
		case e.Err != nil:
			err = apierr.Define(e.Err)
		case e.Response != nil && !e.Response.IsSuccess():
			err = apierr.Status(e.Response.StatusCode, nil)
		default:
			return false
		}
		code, ok := apierr.CodeOf(err)
		if !ok {
			return false
		}
		_, ok = set[code]
		return ok
	}
}
