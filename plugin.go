// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiclient

import (
	"context"
	"net/http"

	"github.com/gogama/apiclient/request"
)

// A Plugin extends a Client at designated points of the request
// pipeline. Install plug-ins in Client.Plugins; within each stage they
// run in list order.
//
// Most plug-ins only care about one or two hooks, so embed NopPlugin
// and override the hooks you need.
//
// Implementations of Plugin must be safe for concurrent use by multiple
// goroutines.
type Plugin interface {
	// Prepare transforms the request before it is sent. It must call
	// done exactly once, either with the request to send (typically a
	// proxy derived from r, never r mutated in place) or with an
	// error, which fails the request. Prepare may call done from any
	// goroutine.
	Prepare(ctx context.Context, r *request.Request, done func(*request.Request, error))

	// WillSend is called immediately before the request is handed to
	// the transport.
	WillSend(r *request.Request)

	// ModifyTransportRequest may adjust the lower-level HTTP request
	// built by the transport. It returns the request to use.
	ModifyTransportRequest(hr *http.Request, r *request.Request) *http.Request

	// DidReceive is called when a transport attempt concludes. The
	// response is nil if the attempt ended in a transport error.
	DidReceive(resp *request.Response, r *request.Request)

	// CanResolve reports whether the plug-in can recover from err,
	// which was produced when r was sent.
	CanResolve(err error, r *request.Request) bool

	// IsResolvingInProgress reports whether the plug-in is currently
	// recovering from an error like err.
	IsResolvingInProgress(err error) bool

	// Resolve attempts to recover from err. It must call done exactly
	// once, from any goroutine. If recovery failed, cause may carry
	// the reason.
	Resolve(err error, done func(ok bool, cause error))

	// ProcessError may translate an unsuccessful response into a
	// domain error. It returns nil to leave the response to the
	// generic status table.
	ProcessError(resp *request.Response) error

	// Process may transform a successfully parsed result right before
	// delivery. The returned value must have the same dynamic type as
	// result.
	Process(result interface{}) interface{}

	// Decorate may replace an error right before it is delivered.
	Decorate(err error) error
}

// A HaltingResolver is a Plugin that decides whether the Client should
// hold back every other request while it resolves an error.
//
// Resolvers which do not implement HaltingResolver halt requests.
type HaltingResolver interface {
	Plugin
	HaltsRequests() bool
}

// NopPlugin implements every Plugin hook as a no-op: requests and
// results pass through unchanged and no error is ever claimed. Embed
// it in a struct to implement only a subset of the hooks.
type NopPlugin struct{}

// Prepare calls done(r, nil).
func (NopPlugin) Prepare(_ context.Context, r *request.Request, done func(*request.Request, error)) {
	done(r, nil)
}

func (NopPlugin) WillSend(_ *request.Request) {}

func (NopPlugin) ModifyTransportRequest(hr *http.Request, _ *request.Request) *http.Request {
	return hr
}

func (NopPlugin) DidReceive(_ *request.Response, _ *request.Request) {}

func (NopPlugin) CanResolve(_ error, _ *request.Request) bool {
	return false
}

func (NopPlugin) IsResolvingInProgress(_ error) bool {
	return false
}

// Resolve calls done(false, nil).
func (NopPlugin) Resolve(_ error, done func(ok bool, cause error)) {
	done(false, nil)
}

func (NopPlugin) ProcessError(_ *request.Response) error {
	return nil
}

func (NopPlugin) Process(result interface{}) interface{} {
	return result
}

func (NopPlugin) Decorate(err error) error {
	return err
}

// PrepareFunc returns a plug-in which prepares requests with the
// ordinary function f. Every other hook behaves as in NopPlugin.
func PrepareFunc(f func(ctx context.Context, r *request.Request) (*request.Request, error)) Plugin {
	if f == nil {
		panic("apiclient: nil prepare func")
	}

	return prepareFunc{f: f}
}

type prepareFunc struct {
	NopPlugin
	f func(context.Context, *request.Request) (*request.Request, error)
}

func (p prepareFunc) Prepare(ctx context.Context, r *request.Request, done func(*request.Request, error)) {
	done(p.f(ctx, r))
}
