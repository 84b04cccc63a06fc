// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import "fmt"

// An Event is something the auth plug-ins report to the application.
type Event int

const (
	// EventUnauthorized is reported when RestorationPlugin claims an
	// authorization failure.
	EventUnauthorized Event = iota
	// EventAuthorizationFailed is reported when AuthorizationPlugin
	// sees an authorization failure.
	EventAuthorizationFailed
	// EventRestored is reported after fresh credentials are committed.
	EventRestored
	// EventRestoreFailed is reported when a restoration fails.
	EventRestoreFailed
)

var eventNames = []string{"Unauthorized", "AuthorizationFailed", "Restored", "RestoreFailed"}

func (evt Event) String() string {
	if evt < 0 || int(evt) >= len(eventNames) {
		return fmt.Sprintf("Event(%d)", int(evt))
	}
	return eventNames[evt]
}

// A Listener receives events synchronously, on the goroutine which
// produced them. It must not block.
type Listener func(evt Event)

// emit delivers evt to l and to ch. A full channel drops the event.
func emit(l Listener, ch chan<- Event, evt Event) {
	if l != nil {
		l(evt)
	}
	if ch != nil {
		select {
		case ch <- evt:
		default:
		}
	}
}
