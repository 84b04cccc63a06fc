// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		testCases := map[int]Code{
			400: BadRequest,
			401: Unauthorized,
			403: Forbidden,
			404: NotFound,
			429: TooManyRequests,
			500: InternalServerError,
			503: ServiceUnavailable,
		}
		for status, code := range testCases {
			ne, ok := FromStatus(status, []byte("b"))
			require.True(t, ok, status)
			assert.Equal(t, code, ne.Code)
			assert.Equal(t, status, ne.StatusCode)
			assert.Equal(t, []byte("b"), ne.Body)
			assert.Equal(t, ne, Status(status, []byte("b")))
		}
	})
	t.Run("unsatisfied header", func(t *testing.T) {
		for _, status := range []int{100, 304, 418, 451, 599, 999} {
			_, ok := FromStatus(status, nil)
			assert.False(t, ok)
			ne := Status(status, nil)
			assert.Equal(t, Unsatisfied, ne.Code)
			assert.Equal(t, status, ne.StatusCode)
			assert.ErrorIs(t, ne, ErrUnsatisfied)
			assert.ErrorIs(t, ne, UnsatisfiedHeader(status))
			assert.NotErrorIs(t, ne, UnsatisfiedHeader(status+1))
		}
	})
	t.Run("2XX not in table", func(t *testing.T) {
		_, ok := FromStatus(200, nil)
		assert.False(t, ok)
	})
}

func TestDefine(t *testing.T) {
	assert.NoError(t, Define(nil))

	canceled := Define(&url.Error{Op: "Get", URL: "x", Err: context.Canceled})
	assert.True(t, IsCanceled(canceled))
	assert.ErrorIs(t, canceled, context.Canceled)

	timedOut := Define(context.DeadlineExceeded)
	assert.ErrorIs(t, timedOut, ErrTimedOut)

	for _, err := range []error{syscall.ECONNRESET, syscall.ECONNREFUSED, io.ErrUnexpectedEOF} {
		assert.ErrorIs(t, Define(err), ErrConnectionLost, err.Error())
	}

	other := errors.New("tls: bad certificate")
	var ee *ExecutorError
	require.ErrorAs(t, Define(other), &ee)
	assert.Same(t, other, ee.Err)

	ne := UnsatisfiedHeader(418)
	assert.Same(t, ne, Define(ne))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil))
	for _, err := range []error{
		NewCanceled(),
		Serialization(Parsing, nil),
		&ExecutorError{Err: io.EOF},
		&UndefinedError{Err: io.EOF},
		&ResolutionError{Err: ErrUnauthorized, Cause: io.EOF},
	} {
		assert.Same(t, err, Wrap(err))
	}
	plain := errors.New("plain")
	var ue *UndefinedError
	require.ErrorAs(t, Wrap(plain), &ue)
	assert.Same(t, plain, ue.Err)
}

func TestNetworkError(t *testing.T) {
	assert.Equal(t, "apiclient: network: unauthorized (HTTP 401)", Status(401, nil).Error())
	assert.Equal(t, "apiclient: network: canceled", NewCanceled().Error())
	assert.Equal(t, "apiclient: network: timed_out: context deadline exceeded",
		Define(context.DeadlineExceeded).Error())
	assert.Equal(t, "unknown", Code(-5).String())

	code, ok := CodeOf(fmt.Errorf("wrapped: %w", Status(404, nil)))
	assert.True(t, ok)
	assert.Equal(t, NotFound, code)
	_, ok = CodeOf(io.EOF)
	assert.False(t, ok)

	assert.True(t, IsUnauthorized(Status(401, nil)))
	assert.False(t, IsUnauthorized(Status(403, nil)))
	assert.False(t, ErrUnauthorized.Is(io.EOF))
}

func TestResolutionError(t *testing.T) {
	cause := errors.New("refresh rejected")
	err := &ResolutionError{Err: Status(401, nil), Cause: cause}
	assert.True(t, IsUnauthorized(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "apiclient: network: unauthorized (HTTP 401) (recovery failed: refresh rejected)", err.Error())
}

func TestSerializationError(t *testing.T) {
	cause := errors.New("bad json")
	err := Serialization(Deserialization, cause)
	assert.Equal(t, "apiclient: serialization: deserialization: bad json", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "apiclient: serialization: key_not_found", Serialization(KeyNotFound, nil).Error())
	assert.Equal(t, "unknown", Reason(7).String())
}
