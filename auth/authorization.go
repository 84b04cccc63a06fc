// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"errors"

	"github.com/gogama/apiclient"
	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/request"
)

// ErrNoProvider fails authorizable requests prepared by an
// AuthorizationPlugin without a Provider.
var ErrNoProvider = errors.New("apiclient/auth: no authorization provider")

// AuthorizationPlugin writes the provider's token into every
// authorizable request. It never resolves errors, but reports the
// authorization failures it sees.
type AuthorizationPlugin struct {
	apiclient.NopPlugin

	// Provider supplies the scheme and token.
	Provider AuthorizationProvider
	// IsAuthError classifies authorization failures. If nil,
	// apierr.IsUnauthorized is used.
	IsAuthError func(err error) bool
	// Listener, if non-nil, receives EventAuthorizationFailed.
	Listener Listener
	// Events, if non-nil, receives EventAuthorizationFailed unless it
	// is full.
	Events chan<- Event
}

// Prepare returns a proxy of r carrying the authorization header.
// Requests which are not authorizable pass through unchanged.
func (p *AuthorizationPlugin) Prepare(_ context.Context, r *request.Request, done func(*request.Request, error)) {
	if !r.IsAuthorizable() {
		done(r, nil)
		return
	}
	if p.Provider == nil {
		done(nil, ErrNoProvider)
		return
	}

	s := p.Provider.Scheme()
	done(r.WithHeader(s.Key(), s.Value(p.Provider.AuthorizationToken())), nil)
}

// CanResolve reports EventAuthorizationFailed for authorization
// failures and always returns false.
func (p *AuthorizationPlugin) CanResolve(err error, _ *request.Request) bool {
	if classify(p.IsAuthError, err) {
		emit(p.Listener, p.Events, EventAuthorizationFailed)
	}
	return false
}

func classify(f func(error) bool, err error) bool {
	if f == nil {
		return apierr.IsUnauthorized(err)
	}

	return f(err)
}
