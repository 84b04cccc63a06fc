// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"sync"

	"github.com/gogama/apiclient"
	"github.com/gogama/apiclient/config"
	"github.com/gogama/apiclient/request"
	"golang.org/x/time/rate"
)

// Plugin delays the prepare stage of every request until its limiter
// grants a token. Retries skip the prepare stage and are not
// throttled. A request sent again after a resolution is.
//
// The zero value does not limit anything.
type Plugin struct {
	apiclient.NopPlugin

	// Limit is the sustained rate, in requests per second. A zero
	// Limit disables limiting.
	Limit rate.Limit
	// Burst is the largest number of requests granted at once. Values
	// below one are treated as one.
	Burst int
	// Key, if non-nil, selects a separate limiter for every distinct
	// key. Otherwise all requests share one limiter.
	Key func(r *request.Request) string

	mu sync.Mutex
	m  map[string]*rate.Limiter
}

// New returns a plug-in granting limit requests per second with the
// given burst.
func New(limit rate.Limit, burst int) *Plugin {
	return &Plugin{Limit: limit, Burst: burst}
}

// FromConfig returns the plug-in configured by cfg. If cfg does not
// limit anything, the plug-in passes every request straight through.
func FromConfig(cfg config.RateLimit) *Plugin {
	if cfg.RequestsPerSecond <= 0 {
		return &Plugin{}
	}

	return New(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
}

// Prepare waits for a token in a new goroutine. If ctx ends first, the
// request fails with the context error.
func (p *Plugin) Prepare(ctx context.Context, r *request.Request, done func(*request.Request, error)) {
	if p.Limit <= 0 {
		done(r, nil)
		return
	}

	l := p.get(p.key(r))
	go func() {
		if err := l.Wait(ctx); err != nil {
			done(nil, err)
			return
		}
		done(r, nil)
	}()
}

func (p *Plugin) key(r *request.Request) string {
	if p.Key == nil {
		return ""
	}

	return p.Key(r)
}

func (p *Plugin) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	burst := p.Burst
	if burst < 1 {
		burst = 1
	}
	l := rate.NewLimiter(p.Limit, burst)
	p.m[key] = l
	return l
}
