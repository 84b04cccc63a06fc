// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiclient

import (
	"context"
	"net/http"

	"github.com/gogama/apiclient/cancel"
	"github.com/gogama/apiclient/request"
)

// A Transport sends requests over the network. It is the only
// collaborator of Client which performs I/O.
//
// Execute starts sending r and returns immediately. When the attempt
// concludes, Execute calls done exactly once, from any goroutine, with
// either a response or an error. The transport applies modify, if it
// is not nil, to every lower-level HTTP request it builds.
//
// The returned Canceler aborts the attempt, in which case done is
// called with an error wrapping context.Canceled. Execute must also
// abort the attempt when ctx is done.
//
// Package transport provides the standard implementation.
type Transport interface {
	Execute(ctx context.Context, r *request.Request, modify request.Modifier,
		done func(*request.Response, error)) cancel.Canceler
}

// A Deserializer turns the body of a successful response into a
// generic document which parsers consume.
//
// Package parse provides a JSON implementation.
type Deserializer interface {
	Deserialize(resp *request.Response) (interface{}, error)
}

// A Parser turns a generic document into a typed result. It receives
// the response too, for parsers which depend on status or headers.
type Parser[T any] interface {
	Parse(doc interface{}, resp *request.Response) (T, error)
}

// The ParserFunc type is an adapter to allow the use of ordinary
// functions as parsers.
type ParserFunc[T any] func(doc interface{}, resp *request.Response) (T, error)

// Parse calls f(doc, resp).
func (f ParserFunc[T]) Parse(doc interface{}, resp *request.Response) (T, error) {
	return f(doc, resp)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// A Result is the single terminal outcome of a request: a value or an
// error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Success returns a successful result holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure returns a failed result holding err.
func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.Err == nil
}

// Get returns the value and error held by the result.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// Get issues a GET to path, using the same policies followed by Do.
//
// To set headers or require authorization, use request.New and Do.
func Get[T any](c *Client, ctx context.Context, path string, p Parser[T]) (T, error) {
	return Do(c, ctx, &request.Request{Method: http.MethodGet, Path: path}, p)
}

// Post issues a POST to path with params encoded as a JSON body, using
// the same policies followed by Do.
func Post[T any](c *Client, ctx context.Context, path string, params map[string]interface{}, p Parser[T]) (T, error) {
	return Do(c, ctx, &request.Request{Method: http.MethodPost, Path: path, Parameters: params}, p)
}

// Upload issues a POST to path whose body is the content of the file at
// filePath, using the same policies followed by Do.
//
// The progress function may be nil.
func Upload[T any](c *Client, ctx context.Context, path, filePath string, progress request.ProgressFunc, p Parser[T]) (T, error) {
	return Do(c, ctx, &request.Request{
		Method:  http.MethodPost,
		Path:    path,
		Payload: &request.Upload{FilePath: filePath, Progress: progress},
	}, p)
}

// SendMultipart issues a POST to path with a multipart/form-data body
// built from parts, using the same policies followed by Do.
//
// The progress function may be nil.
func SendMultipart[T any](c *Client, ctx context.Context, path string, parts []request.Part, progress request.ProgressFunc, p Parser[T]) (T, error) {
	return Do(c, ctx, &request.Request{
		Method:  http.MethodPost,
		Path:    path,
		Payload: &request.Multipart{Parts: parts, Progress: progress},
	}, p)
}

// Download issues a GET to path and stores the response body in the
// file at destination, replacing any previous file. It uses the same
// policies followed by Do.
//
// The progress function may be nil.
func Download(c *Client, ctx context.Context, path, destination string, progress request.ProgressFunc) error {
	_, err := Do[struct{}](c, ctx, &request.Request{
		Method:  http.MethodGet,
		Path:    path,
		Payload: &request.Download{Destination: destination, Progress: progress},
	}, discard)
	return err
}

var discard = ParserFunc[struct{}](func(_ interface{}, _ *request.Response) (struct{}, error) {
	return struct{}{}, nil
})
