// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, Not},
		{"plain", errors.New("boom"), Not},
		{"empty wrap", wrapped(nil), Not},
		{"canceled", context.Canceled, Not},
		{"ETIMEDOUT", syscall.ETIMEDOUT, Timeout},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"timer", slow(true, nil), Timeout},
		{"url timeout", &url.Error{Err: syscall.ETIMEDOUT}, Timeout},
		{"deep timer", wrapped(wrapped(slow(true, nil))), Timeout},
		{"timeout wins", slow(true, syscall.ECONNRESET), Timeout},
		{"reset", syscall.ECONNRESET, ConnReset},
		{"wrapped reset", wrapped(syscall.ECONNRESET), ConnReset},
		{"not timed out reset", slow(false, syscall.ECONNRESET), ConnReset},
		{"refused", syscall.ECONNREFUSED, ConnRefused},
		{"url refused", &url.Error{Err: wrapped(slow(false, syscall.ECONNREFUSED))}, ConnRefused},
		{"aborted", syscall.ECONNABORTED, ConnAborted},
		{"broken pipe", wrapped(syscall.EPIPE), ConnAborted},
		{"short body", io.ErrUnexpectedEOF, ConnClosed},
		{"url EOF", &url.Error{Op: "Get", URL: "x", Err: io.EOF}, ConnClosed},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Categorize(testCase.err))
			assert.Equal(t, testCase.want != Not, Is(testCase.err))
		})
	}
}

func TestCategory_String(t *testing.T) {
	names := map[Category]string{
		Not:          "Not",
		Timeout:      "Timeout",
		ConnRefused:  "ConnRefused",
		ConnReset:    "ConnReset",
		ConnAborted:  "ConnAborted",
		ConnClosed:   "ConnClosed",
		Category(42): "Unknown",
		Category(-1): "Unknown",
	}
	for c, name := range names {
		assert.Equal(t, name, c.String())
	}
}

// fault is a test error which optionally reports a timeout and wraps a
// cause.
type fault struct {
	timed bool
	cause error
}

func wrapped(cause error) error          { return fault{cause: cause} }
func slow(timed bool, cause error) error { return timerFault{fault{timed: timed, cause: cause}} }

func (f fault) Error() string { return fmt.Sprintf("fault(%v)", f.cause) }
func (f fault) Unwrap() error { return f.cause }

type timerFault struct{ fault }

func (f timerFault) Timeout() bool { return f.timed }
