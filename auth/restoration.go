// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gogama/apiclient"
	"github.com/gogama/apiclient/request"
	"github.com/rs/zerolog"
)

var (
	// ErrExchangeTokenMissing is the cause of a failed restoration
	// when the credentials have no exchange token.
	ErrExchangeTokenMissing = errors.New("apiclient/auth: exchange token missing")
	// ErrRestorerMissing is the cause of a failed restoration when the
	// plug-in has no Restorer.
	ErrRestorerMissing = errors.New("apiclient/auth: restorer missing")
)

// A RestoreError is the cause of a failed restoration when the
// Restorer itself failed.
type RestoreError struct {
	Err error
}

func (e *RestoreError) Error() string {
	return "apiclient/auth: restore: " + e.Err.Error()
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}

// A Restorer exchanges exchangeToken for fresh credentials, typically
// by sending a token refresh request.
type Restorer func(ctx context.Context, exchangeToken string) (Tokens, error)

// RestorationPlugin recovers authorizable requests from authorization
// failures by restoring the credentials and re-sending the request.
//
// Only one restoration runs at a time. A failure which arrives while
// one is running is not claimed, and the client holds the request
// until the restoration concludes.
type RestorationPlugin struct {
	apiclient.NopPlugin

	// Credentials holds the tokens to restore.
	Credentials CredentialsProvider
	// Restore obtains the fresh credentials.
	Restore Restorer
	// NoHalt lets the client keep sending other requests while a
	// restoration runs. By default they are held back.
	NoHalt bool
	// Timeout, if positive, bounds each call to Restore.
	Timeout time.Duration
	// IsAuthError classifies authorization failures. If nil,
	// apierr.IsUnauthorized is used.
	IsAuthError func(err error) bool
	// Listener, if non-nil, receives every restoration event.
	Listener Listener
	// Events, if non-nil, receives every restoration event unless it
	// is full.
	Events chan<- Event
	// Logger, if non-nil, receives restoration outcomes.
	Logger *zerolog.Logger

	mu         sync.Mutex
	inProgress bool
	waiters    []func(bool, error)
}

// NewRestoration returns a restoration plug-in which halts requests
// while it restores.
func NewRestoration(creds CredentialsProvider, restore Restorer) *RestorationPlugin {
	return &RestorationPlugin{Credentials: creds, Restore: restore}
}

// HaltsRequests implements apiclient.HaltingResolver.
func (p *RestorationPlugin) HaltsRequests() bool {
	return !p.NoHalt
}

// CanResolve claims authorization failures of authorizable requests
// unless a restoration is already running.
func (p *RestorationPlugin) CanResolve(err error, r *request.Request) bool {
	if !r.IsAuthorizable() || !classify(p.IsAuthError, err) {
		return false
	}
	p.mu.Lock()
	busy := p.inProgress
	p.mu.Unlock()
	if busy {
		return false
	}
	emit(p.Listener, p.Events, EventUnauthorized)
	return true
}

// IsResolvingInProgress reports whether err is an authorization failure
// and a restoration is running.
func (p *RestorationPlugin) IsResolvingInProgress(err error) bool {
	if !classify(p.IsAuthError, err) {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inProgress
}

// Resolve restores the credentials. A Resolve which arrives while a
// restoration is running shares its outcome.
func (p *RestorationPlugin) Resolve(err error, done func(ok bool, cause error)) {
	if !classify(p.IsAuthError, err) {
		p.failed(nil)
		done(false, nil)
		return
	}

	p.mu.Lock()
	if p.inProgress {
		p.waiters = append(p.waiters, done)
		p.mu.Unlock()
		return
	}
	var cause error
	var exchange string
	switch {
	case p.Credentials == nil:
		cause = ErrExchangeTokenMissing
	case p.Restore == nil:
		cause = ErrRestorerMissing
	default:
		exchange = p.Credentials.ExchangeToken()
		if exchange == "" {
			cause = ErrExchangeTokenMissing
		}
	}
	if cause != nil {
		p.mu.Unlock()
		if p.Credentials != nil {
			p.Credentials.Invalidate(cause)
		}
		p.failed(cause)
		done(false, cause)
		return
	}
	p.inProgress = true
	p.waiters = append(p.waiters, done)
	p.mu.Unlock()

	go p.restore(exchange)
}

func (p *RestorationPlugin) restore(exchange string) {
	ctx := context.Background()
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	tokens, err := p.Restore(ctx, exchange)

	p.mu.Lock()
	p.inProgress = false
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	var cause error
	if err != nil {
		cause = &RestoreError{Err: err}
		p.Credentials.Invalidate(cause)
		p.failed(cause)
	} else {
		p.Credentials.Commit(tokens)
		p.log().Info().Msg("credentials restored")
		emit(p.Listener, p.Events, EventRestored)
	}
	for _, done := range waiters {
		done(err == nil, cause)
	}
}

func (p *RestorationPlugin) failed(cause error) {
	p.log().Warn().Err(cause).Msg("restoration failed")
	emit(p.Listener, p.Events, EventRestoreFailed)
}

func (p *RestorationPlugin) log() *zerolog.Logger {
	if p.Logger == nil {
		return &nop
	}

	return p.Logger
}

var nop = zerolog.Nop()
