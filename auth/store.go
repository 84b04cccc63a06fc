// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import "sync"

// Tokens are the credentials of a session. The access token authorizes
// requests; the exchange token obtains a new access token once the
// current one is rejected.
type Tokens struct {
	AccessToken   string `json:"access_token"`
	ExchangeToken string `json:"exchange_token"`
}

// An AuthorizationProvider supplies what AuthorizationPlugin writes
// into requests.
type AuthorizationProvider interface {
	Scheme() Scheme
	AuthorizationToken() string
}

// A CredentialsProvider holds the credentials RestorationPlugin
// restores.
//
// Commit replaces the credentials after a successful restoration.
// Invalidate reports that the credentials can no longer be restored,
// with the reason.
type CredentialsProvider interface {
	AccessToken() string
	ExchangeToken() string
	Commit(t Tokens)
	Invalidate(err error)
}

// Store keeps credentials in memory. It implements both
// AuthorizationProvider and CredentialsProvider, so one Store can back
// both plug-ins.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu     sync.RWMutex
	scheme Scheme
	tokens Tokens
	err    error
}

// NewStore returns a store holding t, written into requests with
// scheme s.
func NewStore(s Scheme, t Tokens) *Store {
	return &Store{scheme: s, tokens: t}
}

func (s *Store) Scheme() Scheme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheme
}

// AuthorizationToken returns the access token.
func (s *Store) AuthorizationToken() string {
	return s.AccessToken()
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

func (s *Store) ExchangeToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.ExchangeToken
}

// Tokens returns a snapshot of the stored credentials.
func (s *Store) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// Commit stores t and clears any previous invalidation.
func (s *Store) Commit(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
	s.err = nil
}

// Invalidate clears the credentials and records err as the reason.
func (s *Store) Invalidate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.err = err
}

// Err returns the reason of the last invalidation, or nil if the
// credentials were committed since.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
