// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/apiclient/cancel"
	"github.com/gogama/apiclient/request"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// HTTP is a transport sending requests through an HTTPDoer. Its zero
// value is a valid configuration which sends requests through
// http.DefaultClient and requires absolute request paths.
//
// HTTP is safe for concurrent use by multiple goroutines.
type HTTP struct {
	// BaseURL is joined with every relative request path.
	BaseURL string
	// Doer sends the lower-level HTTP requests. If nil,
	// http.DefaultClient is used.
	Doer HTTPDoer
	// Header is added to every request. Request headers win.
	Header map[string]string
	// Logger receives one debug line per attempt. If nil, nothing is
	// logged.
	Logger *zerolog.Logger
}

// Default is the transport used by a zero value client.
var Default = &HTTP{}

// Options configures New.
type Options struct {
	BaseURL         string
	Header          map[string]string
	HTTP2           bool
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	Logger          *zerolog.Logger
}

// New builds an HTTP transport with its own connection pool.
func New(opts Options) (*HTTP, error) {
	if opts.BaseURL != "" {
		if _, err := url.Parse(opts.BaseURL); err != nil {
			return nil, fmt.Errorf("apiclient/transport: base URL: %w", err)
		}
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if opts.MaxIdleConns > 0 {
		tr.MaxIdleConns = opts.MaxIdleConns
		tr.MaxIdleConnsPerHost = opts.MaxIdleConns
	}
	if opts.IdleConnTimeout > 0 {
		tr.IdleConnTimeout = opts.IdleConnTimeout
	}
	if opts.HTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("apiclient/transport: http2: %w", err)
		}
	}

	return &HTTP{
		BaseURL: opts.BaseURL,
		Doer:    &http.Client{Transport: tr},
		Header:  opts.Header,
		Logger:  opts.Logger,
	}, nil
}

// Execute sends r in a new goroutine and calls done with the outcome.
// The returned Canceler aborts the attempt.
func (t *HTTP) Execute(ctx context.Context, r *request.Request, modify request.Modifier,
	done func(*request.Response, error)) cancel.Canceler {
	tok := cancel.New()
	ctx, stop := context.WithCancel(ctx)
	tok.Register(stop)
	go func() {
		defer stop()
		start := time.Now()
		resp, err := t.do(ctx, r, modify)
		l := t.log().Debug().
			Str("method", method(r)).
			Str("path", r.Path).
			Dur("elapsed", time.Since(start))
		if resp != nil {
			l = l.Int("status", resp.StatusCode)
		}
		l.Err(err).Msg("attempt")
		done(resp, err)
	}()
	return tok
}

// CloseIdleConnections invokes the same method on the doer, if it has
// one.
func (t *HTTP) CloseIdleConnections() {
	if ic, ok := t.doer().(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

func (t *HTTP) do(ctx context.Context, r *request.Request, modify request.Modifier) (*request.Response, error) {
	hr, err := t.build(ctx, r)
	if err != nil {
		return nil, err
	}
	if modify != nil {
		if next := modify(hr, r); next != nil {
			hr = next
		}
	}

	resp, err := t.doer().Do(hr)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	out := &request.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}
	if d, ok := r.Payload.(*request.Download); ok && d.Destination != "" && out.IsSuccess() {
		err = save(resp.Body, resp.ContentLength, d)
	} else {
		var body io.Reader = resp.Body
		if d, ok := r.Payload.(*request.Download); ok && d.Progress != nil {
			body = &progressReader{r: resp.Body, total: resp.ContentLength, progress: d.Progress}
		}
		out.Body, err = io.ReadAll(body)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// build turns r into a lower-level HTTP request.
func (t *HTTP) build(ctx context.Context, r *request.Request) (*http.Request, error) {
	u, err := t.resolve(r.Path)
	if err != nil {
		return nil, err
	}

	m := method(r)
	var b body
	switch p := r.Payload.(type) {
	case *request.Multipart:
		b, err = multipartBody(r.Parameters, p)
	case *request.Upload:
		b, err = uploadBody(p)
	default:
		b, err = encode(u, r.Encoding, r.Parameters)
	}
	if err != nil {
		return nil, err
	}

	hr, err := http.NewRequestWithContext(ctx, m, u.String(), b.reader)
	if err != nil {
		if c, ok := b.reader.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	if b.reader != nil {
		hr.ContentLength = b.length
	}
	if b.contentType != "" {
		hr.Header.Set("Content-Type", b.contentType)
	}
	for k, v := range t.Header {
		hr.Header.Set(k, v)
	}
	for k, v := range r.Header {
		hr.Header.Set(k, v)
	}
	return hr, nil
}

// resolve joins path with the base URL. An absolute path is used as
// it is.
func (t *HTTP) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("apiclient/transport: path: %w", err)
	}
	if ref.IsAbs() || t.BaseURL == "" {
		if !ref.IsAbs() {
			return nil, fmt.Errorf("apiclient/transport: relative path %q without base URL", path)
		}
		return ref, nil
	}
	base, err := url.Parse(t.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient/transport: base URL: %w", err)
	}
	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(ref.Path, "/")
	u.RawPath = ""
	if ref.RawQuery != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + ref.RawQuery
		} else {
			u.RawQuery = ref.RawQuery
		}
	}
	return &u, nil
}

func (t *HTTP) doer() HTTPDoer {
	if t.Doer == nil {
		return http.DefaultClient
	}

	return t.Doer
}

func (t *HTTP) log() *zerolog.Logger {
	if t.Logger == nil {
		return &nop
	}

	return t.Logger
}

var nop = zerolog.Nop()

func method(r *request.Request) string {
	if r.Method == "" {
		return http.MethodGet
	}

	return r.Method
}
