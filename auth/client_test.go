// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogama/apiclient"
	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/config"
	"github.com/gogama/apiclient/parse"
	"github.com/gogama/apiclient/request"
	"github.com/gogama/apiclient/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string `json:"name"`
}

// tokenServer accepts only the bearer token "new".
func tokenServer(t *testing.T) (*httptest.Server, *int32) {
	var rejected int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new" {
			atomic.AddInt32(&rejected, 1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"profile":{"name":"ada"}}`))
	}))
	t.Cleanup(server.Close)
	return server, &rejected
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (rec *recorder) listen(evt Event) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.events = append(rec.events, evt)
}

func (rec *recorder) count(evt Event) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	n := 0
	for _, e := range rec.events {
		if e == evt {
			n++
		}
	}
	return n
}

func fetch(c *apiclient.Client, r *request.Request) <-chan apiclient.Result[profile] {
	ch := make(chan apiclient.Result[profile], 1)
	apiclient.Execute(c, context.Background(), r, parse.Decode[profile]("profile"), func(res apiclient.Result[profile]) {
		ch <- res
	})
	return ch
}

func awaitResult(t *testing.T, ch <-chan apiclient.Result[profile]) apiclient.Result[profile] {
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no result delivered")
		return apiclient.Result[profile]{}
	}
}

func TestClient_Restoration(t *testing.T) {
	t.Run("restores and replays", func(t *testing.T) {
		server, _ := tokenServer(t)
		store := NewStore(Bearer, Tokens{AccessToken: "old", ExchangeToken: "x1"})
		release := make(chan struct{})
		var restores int32
		rec := &recorder{}
		restore := NewRestoration(store, func(context.Context, string) (Tokens, error) {
			atomic.AddInt32(&restores, 1)
			<-release
			return Tokens{AccessToken: "new", ExchangeToken: "x2"}, nil
		})
		restore.Listener = rec.listen
		c := &apiclient.Client{
			Transport: &transport.HTTP{BaseURL: server.URL},
			Plugins:   []apiclient.Plugin{&AuthorizationPlugin{Provider: store, Listener: rec.listen}, restore},
		}

		a := fetch(c, authorizable(t))
		b := fetch(c, authorizable(t))
		require.Eventually(t, func() bool { return atomic.LoadInt32(&restores) == 1 }, 5*time.Second, time.Millisecond)
		close(release)

		for _, ch := range []<-chan apiclient.Result[profile]{a, b} {
			res := awaitResult(t, ch)
			require.NoError(t, res.Err)
			assert.Equal(t, "ada", res.Value.Name)
		}
		assert.EqualValues(t, 1, atomic.LoadInt32(&restores))
		assert.GreaterOrEqual(t, rec.count(EventUnauthorized), 1)
		assert.Equal(t, 1, rec.count(EventRestored))
		assert.GreaterOrEqual(t, rec.count(EventAuthorizationFailed), 1)
		assert.Equal(t, Tokens{AccessToken: "new", ExchangeToken: "x2"}, store.Tokens())
	})
	t.Run("restore fails", func(t *testing.T) {
		server, _ := tokenServer(t)
		boom := errors.New("refresh rejected")
		creds := &mockCredentials{}
		creds.On("AccessToken").Return("old")
		creds.On("ExchangeToken").Return("x1").Once()
		creds.On("Invalidate", &RestoreError{Err: boom}).Once()
		started := make(chan struct{})
		release := make(chan struct{})
		c := &apiclient.Client{
			Transport: &transport.HTTP{BaseURL: server.URL},
			Plugins: []apiclient.Plugin{
				&AuthorizationPlugin{Provider: providerOf(creds)},
				NewRestoration(creds, func(context.Context, string) (Tokens, error) {
					close(started)
					<-release
					return Tokens{}, boom
				}),
			},
		}

		a := fetch(c, authorizable(t))
		<-started
		b := fetch(c, authorizable(t))
		close(release)

		res := awaitResult(t, a)
		var re *apierr.ResolutionError
		require.ErrorAs(t, res.Err, &re)
		assert.True(t, apierr.IsUnauthorized(res.Err))
		assert.ErrorIs(t, res.Err, boom)
		assert.True(t, apierr.IsCanceled(awaitResult(t, b).Err))
		creds.AssertExpectations(t)
	})
	t.Run("public requests skip authorization", func(t *testing.T) {
		server, rejected := tokenServer(t)
		store := NewStore(Bearer, Tokens{AccessToken: "old", ExchangeToken: "x1"})
		c := &apiclient.Client{
			Transport: &transport.HTTP{BaseURL: server.URL},
			Plugins: []apiclient.Plugin{
				&AuthorizationPlugin{Provider: store},
				NewRestoration(store, func(context.Context, string) (Tokens, error) {
					t.Error("restorer called")
					return Tokens{}, nil
				}),
			},
		}
		r, err := request.New(http.MethodGet, "/public")
		require.NoError(t, err)
		res := awaitResult(t, fetch(c, r))
		assert.True(t, apierr.IsUnauthorized(res.Err))
		assert.EqualValues(t, 1, atomic.LoadInt32(rejected))
	})
}

func TestClient_RestorationFromConfig(t *testing.T) {
	testCases := []struct {
		name         string
		noHalt       bool
		wantRejected int32
	}{
		{"halts by default", false, 1},
		{"no halt holds failures", true, 2},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server, rejected := tokenServer(t)
			var cfg config.Config
			cfg.Auth.NoHalt = testCase.noHalt
			cfg.ApplyDefaults()
			release := make(chan struct{})
			var restores int32
			_, plugins, err := FromConfig(cfg.Auth, Tokens{AccessToken: "old", ExchangeToken: "x1"},
				func(context.Context, string) (Tokens, error) {
					atomic.AddInt32(&restores, 1)
					<-release
					return Tokens{AccessToken: "new", ExchangeToken: "x2"}, nil
				})
			require.NoError(t, err)
			c := &apiclient.Client{Transport: &transport.HTTP{BaseURL: server.URL}, Plugins: plugins}

			a := fetch(c, authorizable(t))
			require.Eventually(t, func() bool { return atomic.LoadInt32(&restores) == 1 }, 5*time.Second, time.Millisecond)
			b := fetch(c, authorizable(t))
			require.Eventually(t, func() bool {
				return atomic.LoadInt32(rejected) == testCase.wantRejected
			}, 5*time.Second, time.Millisecond)
			assert.Never(t, func() bool { return len(b) > 0 }, 100*time.Millisecond, 5*time.Millisecond,
				"delivered while restoring")
			close(release)

			for _, ch := range []<-chan apiclient.Result[profile]{a, b} {
				res := awaitResult(t, ch)
				require.NoError(t, res.Err)
				assert.Equal(t, "ada", res.Value.Name)
			}
			assert.EqualValues(t, 1, atomic.LoadInt32(&restores))
			assert.EqualValues(t, testCase.wantRejected, atomic.LoadInt32(rejected))
		})
	}
}

// providerOf adapts a CredentialsProvider for AuthorizationPlugin.
func providerOf(creds CredentialsProvider) AuthorizationProvider {
	return bearerProvider{creds}
}

type bearerProvider struct {
	CredentialsProvider
}

func (bearerProvider) Scheme() Scheme { return Bearer }

func (p bearerProvider) AuthorizationToken() string { return p.AccessToken() }
