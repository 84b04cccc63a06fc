// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A State identifies where a logical request is in the client
// pipeline.
//
// The normal progression is Queued, Prepared, Sent, Validated,
// Deserialized, Parsed, Delivered. A failed validation moves the
// request to Retrying (and back to Sent) or to Resolving (and back to
// Prepared, or to Cancelled). Cancelled and Failed are terminal and
// may be reached from any state.
type State int

const (
	// Queued means the request is waiting, either to start or in the
	// halting queue.
	Queued State = iota
	// Prepared means the plug-in prepare chain has run.
	Prepared
	// Sent means the request was dispatched through the transport.
	Sent
	// Validated means the transport outcome was examined.
	Validated
	// Retrying means the retry policy asked for the prepared request
	// to be sent again.
	Retrying
	// Resolving means a plug-in is trying to recover from the
	// validation failure.
	Resolving
	// Deserialized means the response body was turned into a
	// generic document.
	Deserialized
	// Parsed means the document was turned into a typed result.
	Parsed
	// Delivered means the success callback fired.
	Delivered
	// Cancelled means the request was cancelled.
	Cancelled
	// Failed means the failure callback fired.
	Failed
	// stateSentinel provides the total number of states typed as a
	// State.
	stateSentinel

	// numStates provides the total number of states as an int.
	numStates = int(stateSentinel)
)

var stateNames = []string{
	"Queued",
	"Prepared",
	"Sent",
	"Validated",
	"Retrying",
	"Resolving",
	"Deserialized",
	"Parsed",
	"Delivered",
	"Cancelled",
	"Failed",
}

// States returns every pipeline state, in declaration order.
func States() []State {
	s := make([]State, numStates)
	for i := range s {
		s[i] = State(i)
	}
	return s
}

// Name returns the name of the state.
func (s State) Name() string {
	return stateNames[int(s)]
}

// String returns the name of the state.
func (s State) String() string {
	return s.Name()
}

// Terminal reports whether s is an absorbing state.
func (s State) Terminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}
