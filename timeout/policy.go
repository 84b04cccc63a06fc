// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/apiclient/request"
)

// A Policy defines a timeout policy which may be plugged into the
// client (apiclient.Client) to direct how to set the timeout for the
// initial transport attempt, as well as for any subsequent attempts.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the next transport
	// attempt. Parameter e contains the current execution state.
	Timeout(e *request.Execution) time.Duration
}

// DefaultPolicy is the default timeout policy. Plain requests get a
// fixed 30 second timeout. Multipart, upload and download requests,
// which move whole files, get 5 minutes.
var DefaultPolicy Policy = ByKind(Fixed(30*time.Second), map[request.Kind]Policy{
	request.MultipartKind: Fixed(5 * time.Minute),
	request.UploadKind:    Fixed(5 * time.Minute),
	request.DownloadKind:  Fixed(5 * time.Minute),
})

// Infinite never times out. Use it for attempts whose length is bounded
// by the caller's context instead.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed returns a policy giving every attempt the timeout d.
func Fixed(d time.Duration) Policy {
	return steps{d}
}

// Adaptive returns a policy which lengthens the timeout after attempts
// that timed out.
//
// An attempt following a success, a non-timeout failure, or no attempt
// at all gets usual. An attempt following the n-th timeout of the
// execution gets after[n-1], and after its last element is reused once
// timeouts outnumber it. For example,
//
//	Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// waits 200ms normally, 1s right after the first timeout and 10s right
// after any later one.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	return append(steps{usual}, after...)
}

// ByKind returns a policy choosing between policies by the payload
// kind of the request. Kinds missing from byKind use fallback, as do
// executions without a request.
func ByKind(fallback Policy, byKind map[request.Kind]Policy) Policy {
	if fallback == nil {
		panic("apiclient/timeout: nil fallback")
	}
	p := kindPolicy{fallback: fallback, kinds: make(map[request.Kind]Policy, len(byKind))}
	for kind, q := range byKind {
		if q == nil {
			panic("apiclient/timeout: nil policy for kind " + kind.String())
		}
		p.kinds[kind] = q
	}
	return p
}

// steps holds the usual timeout followed by the escalation ladder.
type steps []time.Duration

func (s steps) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return s[0]
	}
	return s[min(e.AttemptTimeouts, len(s)-1)]
}

type kindPolicy struct {
	fallback Policy
	kinds    map[request.Kind]Policy
}

func (p kindPolicy) Timeout(e *request.Execution) time.Duration {
	if e.Request != nil {
		if q, ok := p.kinds[e.Request.Kind()]; ok {
			return q.Timeout(e)
		}
	}
	return p.fallback.Timeout(e)
}
