// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiclient

import (
	"context"
	"net/http"

	"github.com/gogama/apiclient/request"
)

// A chain runs every plug-in hook over a fixed list of plug-ins, in
// list order.
type chain []Plugin

func newChain(plugins []Plugin) chain {
	ch := make(chain, len(plugins))
	for i, p := range plugins {
		if p == nil {
			panic("apiclient: nil plugin")
		}
		ch[i] = p
	}
	return ch
}

// prepare threads r through every Prepare hook. The first error stops
// the chain.
func (ch chain) prepare(ctx context.Context, r *request.Request, done func(*request.Request, error)) {
	ch.prepareFrom(0, ctx, r, done)
}

func (ch chain) prepareFrom(i int, ctx context.Context, r *request.Request, done func(*request.Request, error)) {
	if i == len(ch) {
		done(r, nil)
		return
	}
	ch[i].Prepare(ctx, r, func(next *request.Request, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		if next == nil {
			next = r
		}
		ch.prepareFrom(i+1, ctx, next, done)
	})
}

func (ch chain) willSend(r *request.Request) {
	for _, p := range ch {
		p.WillSend(r)
	}
}

// modifier folds every ModifyTransportRequest hook into one transport
// level mutation hook.
func (ch chain) modifier() request.Modifier {
	if len(ch) == 0 {
		return nil
	}
	return func(hr *http.Request, r *request.Request) *http.Request {
		for _, p := range ch {
			if next := p.ModifyTransportRequest(hr, r); next != nil {
				hr = next
			}
		}
		return hr
	}
}

func (ch chain) didReceive(resp *request.Response, r *request.Request) {
	for _, p := range ch {
		p.DidReceive(resp, r)
	}
}

// resolver returns the first plug-in claiming err, or nil.
func (ch chain) resolver(err error, r *request.Request) Plugin {
	for _, p := range ch {
		if p.CanResolve(err, r) {
			return p
		}
	}
	return nil
}

func (ch chain) resolvingInProgress(err error) bool {
	for _, p := range ch {
		if p.IsResolvingInProgress(err) {
			return true
		}
	}
	return false
}

// processError returns the first domain error a plug-in produces for
// resp, or nil.
func (ch chain) processError(resp *request.Response) error {
	for _, p := range ch {
		if err := p.ProcessError(resp); err != nil {
			return err
		}
	}
	return nil
}

func (ch chain) process(result interface{}) interface{} {
	for _, p := range ch {
		result = p.Process(result)
	}
	return result
}

func (ch chain) decorate(err error) error {
	for _, p := range ch {
		if next := p.Decorate(err); next != nil {
			err = next
		}
	}
	return err
}

func haltsRequests(p Plugin) bool {
	if h, ok := p.(HaltingResolver); ok {
		return h.HaltsRequests()
	}
	return true
}
