// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cancel

import (
	"context"
	"sync"
)

// A Canceler is the interface that wraps the basic Cancel method.
//
// Cancel requests cancellation of an operation. Calling Cancel more
// than once, or after the operation has already finished, has no
// effect.
type Canceler interface {
	Cancel()
}

// A Token represents an operation which may be cancelled. The zero
// value is not usable; create tokens with New.
//
// A Token is safe for concurrent use by multiple goroutines.
type Token struct {
	mu        sync.Mutex
	cancelled bool
	callbacks []func()
	done      chan struct{}
}

// New returns a new, uncancelled Token.
func New() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel cancels the token and runs every registered callback, in
// registration order, before returning. Only the first call to Cancel
// runs callbacks; subsequent and concurrent calls are no-ops.
func (t *Token) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	callbacks := t.callbacks
	t.callbacks = nil
	close(t.done)
	t.mu.Unlock()

	for _, f := range callbacks {
		f()
	}
}

// Register adds a cleanup callback to run when the token is cancelled.
// If the token is already cancelled, f runs immediately in the calling
// goroutine.
func (t *Token) Register(f func()) {
	if f == nil {
		panic("apiclient/cancel: nil callback")
	}

	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		f()
		return
	}
	t.callbacks = append(t.callbacks, f)
	t.mu.Unlock()
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Done returns a channel which is closed when the token is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Link cancels the token when ctx is done. The returned stop function
// detaches the token from ctx; it reports whether the link was still
// active.
func (t *Token) Link(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, t.Cancel)
}
