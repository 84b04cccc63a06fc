// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/cancel"
	"github.com/gogama/apiclient/config"
	"github.com/gogama/apiclient/halt"
	"github.com/gogama/apiclient/log"
	"github.com/gogama/apiclient/parse"
	"github.com/gogama/apiclient/request"
	"github.com/gogama/apiclient/retry"
	"github.com/gogama/apiclient/timeout"
	"github.com/gogama/apiclient/transport"
	"github.com/rs/zerolog"
)

// A Client orchestrates API requests between application code and a
// transport. Its zero value is a valid configuration.
//
// The zero value client uses transport.Default as the transport,
// parse.JSON as the deserializer, retry.DefaultPolicy as the retry
// policy, timeout.DefaultPolicy as the timeout policy, no plug-ins, and
// discards its logs.
//
// Every request moves through the same pipeline. The plug-in prepare
// chain runs, the request is sent, and the outcome is validated. A
// failed attempt may be sent again under the retry policy, and
// otherwise is offered to the plug-ins for resolution. A successful
// response is deserialized, parsed, and processed by the plug-ins
// before it is delivered.
//
// While a plug-in resolves an error, such as an expired access token,
// the client holds back every other request. The held requests are
// replayed once the resolution succeeds, or cancelled if it fails. A
// resolver may opt out of halting through HaltingResolver. New requests
// then keep flowing, but failures waiting on its resolution are still
// held until it concludes.
//
// A Client must not be copied after first use, and its fields must not
// be changed once it has executed a request. Client is safe for
// concurrent use by multiple goroutines.
type Client struct {
	// Transport sends requests over the network.
	//
	// If Transport is nil, transport.Default is used.
	Transport Transport
	// Deserializer turns successful response bodies into generic
	// documents for parsers.
	//
	// If Deserializer is nil, parse.JSON is used.
	Deserializer Deserializer
	// Plugins extend the request pipeline. Within each stage they run
	// in list order.
	Plugins []Plugin
	// RetryPolicy decides when to send a failed attempt again before
	// falling back to plug-in resolution.
	//
	// If RetryPolicy is nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Decider
	// TimeoutPolicy specifies how to set timeouts on individual
	// transport attempts.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Logger receives the pipeline's state transitions at debug level
	// and its failures at warn level.
	//
	// If Logger is nil, nothing is logged.
	Logger *zerolog.Logger

	once      sync.Once
	chain     chain
	halting   halt.Service
	resolveMu sync.Mutex
	// resolving counts running resolutions which do not halt the
	// gate. Failures waiting on them are held until the count drops
	// back to zero. Both are guarded by resolveMu.
	resolving int
	held      []*call
}

// New builds a Client from configuration. Plug-ins are installed in the
// order given.
//
// The configuration is defaulted and validated before use.
func New(cfg config.Config, plugins ...Plugin) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := log.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("apiclient: logger: %w", err)
	}

	tr, err := transport.New(transport.Options{
		BaseURL:         cfg.BaseURL,
		Header:          cfg.Transport.Header,
		HTTP2:           cfg.Transport.HTTP2,
		MaxIdleConns:    cfg.Transport.MaxIdleConns,
		IdleConnTimeout: cfg.Transport.IdleConnTimeout,
		Logger:          ptr(log.WithComponent(logger, "transport")),
	})
	if err != nil {
		return nil, fmt.Errorf("apiclient: transport: %w", err)
	}

	rp := retry.Never
	if cfg.Retry.Times > 0 {
		rp = retry.Times(cfg.Retry.Times).And(retry.Idempotent).And(retry.TransientErr)
	}

	transfer := timeout.Fixed(cfg.Timeout.Transfer)
	return &Client{
		Transport:    tr,
		Deserializer: parse.JSON,
		Plugins:      plugins,
		RetryPolicy:  rp,
		TimeoutPolicy: timeout.ByKind(timeout.Fixed(cfg.Timeout.Attempt), map[request.Kind]timeout.Policy{
			request.MultipartKind: transfer,
			request.UploadKind:    transfer,
			request.DownloadKind:  transfer,
		}),
		Logger: &logger,
	}, nil
}

// Execute starts executing r and returns immediately. When the request
// reaches a terminal state, done is called exactly once, from any
// goroutine, with the parsed value or the failure.
//
// If a plug-in is resolving an error when Execute is called, the
// request is held back and only started once the resolution concludes.
//
// Cancelling the returned Canceler, or ctx, stops the request wherever
// it is: a held request never starts, and an in-flight transport
// attempt is aborted. Unless the request was already delivered, done
// then receives a canceled network error (or a timed out one, if ctx
// reached its deadline).
//
// Every error passed to done belongs to the apierr taxonomy, possibly
// replaced by a plug-in's Decorate hook.
func Execute[T any](c *Client, ctx context.Context, r *request.Request, p Parser[T], done func(Result[T])) cancel.Canceler {
	if r == nil {
		panic("apiclient: nil request")
	}
	if p == nil {
		panic("apiclient: nil parser")
	}
	if done == nil {
		panic("apiclient: nil done")
	}

	x := c.newCall(ctx, r)
	x.parse = func(doc interface{}, resp *request.Response) (interface{}, error) {
		return p.Parse(doc, resp)
	}
	x.deliver = func(v interface{}, err error) {
		if err != nil {
			done(Failure[T](err))
			return
		}
		if v == nil {
			var zero T
			done(Success(zero))
			return
		}
		t, ok := v.(T)
		if !ok {
			var zero T
			done(Failure[T](&apierr.UndefinedError{
				Err: fmt.Errorf("apiclient: result of type %T delivered for %T", v, zero),
			}))
			return
		}
		done(Success(t))
	}
	x.begin()
	return x.token
}

// Do executes r and waits for its result, following the same policies
// as Execute.
func Do[T any](c *Client, ctx context.Context, r *request.Request, p Parser[T]) (T, error) {
	ch := make(chan Result[T], 1)
	Execute(c, ctx, r, p, func(res Result[T]) {
		ch <- res
	})
	return (<-ch).Get()
}

// CancelHaltingRequests cancels every request currently held back by
// an in-progress resolution. Each receives a canceled network error.
//
// Use it for application-initiated halts, such as logging out while a
// token refresh is underway.
func (c *Client) CancelHaltingRequests() {
	c.init()
	c.halting.CancelRequests()

	c.resolveMu.Lock()
	held := c.held
	c.held = nil
	c.resolveMu.Unlock()
	for _, x := range held {
		x.cancelled()
	}
}

// hold queues x behind the running non-halting resolutions. It reports
// false if none is running. The caller must hold resolveMu.
func (c *Client) hold(x *call) bool {
	if c.resolving == 0 {
		return false
	}
	x.state(request.Queued)
	c.held = append(c.held, x)
	return true
}

// release concludes one non-halting resolution. When the last one
// concludes, the held requests are re-sent if it succeeded and
// cancelled otherwise.
func (c *Client) release(ok bool) {
	c.resolveMu.Lock()
	c.resolving--
	var held []*call
	if c.resolving == 0 {
		held, c.held = c.held, nil
	}
	c.resolveMu.Unlock()

	for _, x := range held {
		if ok {
			x.resend()
		} else {
			x.cancelled()
		}
	}
}

// CloseIdleConnections invokes the same method on the client's
// transport.
//
// If the transport has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.transport().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) init() {
	c.once.Do(func() {
		c.chain = newChain(c.Plugins)
		if c.Logger != nil {
			c.halting.Logger = ptr(log.WithComponent(*c.Logger, "halt"))
		}
	})
}

func (c *Client) transport() Transport {
	if c.Transport == nil {
		return transport.Default
	}

	return c.Transport
}

func (c *Client) deserializer() Deserializer {
	if c.Deserializer == nil {
		return parse.JSON
	}

	return c.Deserializer
}

func (c *Client) retryPolicy() retry.Decider {
	if c.RetryPolicy == nil {
		return retry.DefaultPolicy
	}

	return c.RetryPolicy
}

func (c *Client) timeoutPolicy() timeout.Policy {
	if c.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}

	return c.TimeoutPolicy
}

func (c *Client) logger() *zerolog.Logger {
	if c.Logger == nil {
		return &nopLogger
	}

	return c.Logger
}

var nopLogger = zerolog.Nop()

func ptr[T any](v T) *T {
	return &v
}
