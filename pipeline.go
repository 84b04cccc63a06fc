// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/cancel"
	"github.com/gogama/apiclient/log"
	"github.com/gogama/apiclient/request"
	"github.com/rs/zerolog"
)

// A call is one logical request moving through the pipeline.
//
// The pipeline is a chain of continuations, so at most one step touches
// the execution at a time. Cancellation only ever reaches finish, which
// does not touch the execution when it delivers a cancellation.
type call struct {
	c        *Client
	ctx      context.Context
	e        *request.Execution
	log      zerolog.Logger
	token    *cancel.Token
	stopLink func() bool

	// resolved is set once the request was re-sent after a resolution.
	// Failures after that point are delivered, never resolved again.
	resolved bool

	parse   func(doc interface{}, resp *request.Response) (interface{}, error)
	deliver func(v interface{}, err error)
	once    sync.Once
}

var errNoOutcome = errors.New("apiclient: transport returned neither response nor error")

func (c *Client) newCall(ctx context.Context, r *request.Request) *call {
	c.init()
	if ctx == nil {
		ctx = context.Background()
	}
	e := request.NewExecution(r)
	x := &call{
		c:     c,
		ctx:   ctx,
		e:     e,
		token: cancel.New(),
		log: c.logger().With().
			Str(log.Component, "pipeline").
			Str("request_id", e.ID).
			Str("method", r.Method).
			Str("path", r.Path).
			Logger(),
	}
	return x
}

// begin registers cancellation and enters the halting gate. If the gate
// is open the request starts right away.
func (x *call) begin() {
	x.e.Start = time.Now()
	x.stopLink = x.token.Link(x.ctx)
	x.token.Register(x.cancelled)
	if !x.c.halting.ShouldProceed(x.e.Request) {
		x.log.Debug().Msg("request queued behind resolution")
	}
	x.c.halting.Add(x.start, x.cancelled)
}

func (x *call) start() {
	if x.token.Cancelled() {
		return
	}
	x.c.chain.prepare(x.ctx, x.e.Request, func(r *request.Request, err error) {
		if x.token.Cancelled() {
			return
		}
		if err != nil {
			x.fail(apierr.Wrap(err))
			return
		}
		x.e.Prepared = r
		x.state(request.Prepared)
		x.send()
	})
}

func (x *call) send() {
	if x.token.Cancelled() {
		return
	}
	e := x.e
	d := x.c.timeoutPolicy().Timeout(e)
	e.Response, e.Err = nil, nil
	x.c.chain.willSend(e.Prepared)
	x.state(request.Sent)
	ctx, release := context.WithTimeout(x.ctx, d)
	h := x.c.transport().Execute(ctx, e.Prepared, x.c.chain.modifier(), func(resp *request.Response, err error) {
		release()
		x.received(resp, err)
	})
	if h != nil {
		x.token.Register(h.Cancel)
	}
}

// received concludes one attempt. Plug-ins hear about every attempt,
// even one cut short by cancellation.
func (x *call) received(resp *request.Response, err error) {
	e := x.e
	x.c.chain.didReceive(resp, e.Prepared)
	if x.token.Cancelled() {
		return
	}
	e.Response, e.Err = resp, err
	if resp == nil && err == nil {
		e.Err = errNoOutcome
	}
	if e.Timeout() {
		e.AttemptTimeouts++
	}
	x.state(request.Validated)

	verr := x.validate()
	if verr == nil {
		x.process()
		return
	}
	x.log.Debug().Err(verr).Int("attempt", e.Attempt).Msg("validation failed")

	if x.c.retryPolicy().Decide(e) {
		e.Attempt++
		x.state(request.Retrying)
		x.send()
		return
	}
	if x.resolved {
		x.fail(verr)
		return
	}
	x.resolve(verr)
}

// validate accepts a 2xx response and maps every other outcome into
// the taxonomy.
func (x *call) validate() error {
	e := x.e
	if e.Err != nil {
		return apierr.Define(e.Err)
	}
	if e.Response.IsSuccess() {
		return nil
	}
	if err := x.c.chain.processError(e.Response); err != nil {
		return apierr.Wrap(err)
	}
	return apierr.Status(e.Response.StatusCode, e.Response.Body)
}

// resolve offers err to the plug-ins. Choosing the resolver and closing
// the gate happen under one lock so two failures cannot both start a
// resolution.
func (x *call) resolve(err error) {
	c := x.c
	r := x.e.Prepared
	x.state(request.Resolving)

	c.resolveMu.Lock()
	p := c.chain.resolver(err, r)
	if p == nil {
		if !c.chain.resolvingInProgress(err) || !r.IsAuthorizable() {
			c.resolveMu.Unlock()
			x.fail(err)
			return
		}
		held := c.hold(x)
		c.resolveMu.Unlock()
		if !held {
			x.park()
		}
		return
	}
	halts := haltsRequests(p)
	if halts && !c.halting.Halt() {
		c.resolveMu.Unlock()
		x.park()
		return
	}
	if !halts {
		c.resolving++
	}
	c.resolveMu.Unlock()

	x.log.Info().Err(err).Bool("halts", halts).Msg("resolving")
	p.Resolve(err, func(ok bool, cause error) {
		if ok {
			x.log.Info().Msg("resolved")
			x.resend()
		} else {
			x.log.Warn().AnErr("cause", cause).Msg("resolution failed")
			if cause != nil {
				x.fail(&apierr.ResolutionError{Err: err, Cause: cause})
			} else {
				x.fail(err)
			}
		}
		if halts {
			c.halting.Resume(ok)
		} else {
			c.release(ok)
		}
	})
}

// park holds the request until the resolution in progress concludes.
func (x *call) park() {
	x.state(request.Queued)
	x.c.halting.Add(x.resend, x.cancelled)
}

// resend starts the request over from the prepare chain, so plug-ins
// attach fresh state such as renewed credentials.
func (x *call) resend() {
	if x.token.Cancelled() {
		return
	}
	x.resolved = true
	x.e.Attempt++
	x.start()
}

func (x *call) process() {
	e := x.e
	doc, err := x.c.deserializer().Deserialize(e.Response)
	if err != nil {
		x.finish(request.Failed, nil, serializationErr(apierr.Deserialization, err))
		return
	}
	x.state(request.Deserialized)

	v, err := x.parse(doc, e.Response)
	if err != nil {
		x.finish(request.Failed, nil, serializationErr(apierr.Parsing, err))
		return
	}
	x.state(request.Parsed)

	x.finish(request.Delivered, x.c.chain.process(v), nil)
}

func (x *call) fail(err error) {
	x.finish(request.Failed, nil, apierr.Wrap(x.c.chain.decorate(err)))
}

func (x *call) cancelled() {
	x.finish(request.Cancelled, nil, x.canceledErr())
}

// finish delivers the terminal outcome exactly once.
func (x *call) finish(s request.State, v interface{}, err error) {
	x.once.Do(func() {
		if s != request.Cancelled {
			x.e.State = s
			x.e.End = time.Now()
		}
		if x.stopLink != nil {
			x.stopLink()
		}
		switch s {
		case request.Delivered:
			x.log.Debug().Stringer("state", s).Msg("request finished")
		default:
			x.log.Warn().Stringer("state", s).Err(err).Msg("request finished")
		}
		x.deliver(v, err)
	})
}

func (x *call) state(s request.State) {
	x.e.State = s
	x.log.Debug().Stringer("state", s).Int("attempt", x.e.Attempt).Msg("state")
}

func (x *call) canceledErr() error {
	if err := x.ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		return &apierr.NetworkError{Code: apierr.TimedOut, Err: err}
	}
	return apierr.NewCanceled()
}

func serializationErr(reason apierr.Reason, err error) error {
	var se *apierr.SerializationError
	if errors.As(err, &se) {
		return se
	}
	return apierr.Serialization(reason, err)
}
