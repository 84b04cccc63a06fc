// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyBytes(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		b, err := BodyBytes(nil)
		assert.NoError(t, err)
		assert.Nil(t, b)
	})
	t.Run("string", func(t *testing.T) {
		b, err := BodyBytes("foo")
		assert.NoError(t, err)
		assert.Equal(t, []byte("foo"), b)
	})
	t.Run("[]byte", func(t *testing.T) {
		in := []byte("bar")
		b, err := BodyBytes(in)
		assert.NoError(t, err)
		assert.Equal(t, in, b)
	})
	t.Run("io.Reader", func(t *testing.T) {
		b, err := BodyBytes(strings.NewReader("baz"))
		assert.NoError(t, err)
		assert.Equal(t, []byte("baz"), b)
	})
	t.Run("io.ReadCloser", func(t *testing.T) {
		rc := &closeRecorder{Reader: bytes.NewReader([]byte("qux"))}
		b, err := BodyBytes(rc)
		assert.NoError(t, err)
		assert.Equal(t, []byte("qux"), b)
		assert.True(t, rc.closed)
	})
	t.Run("close error", func(t *testing.T) {
		closeErr := errors.New("close")
		b, err := BodyBytes(&closeRecorder{Reader: strings.NewReader(""), err: closeErr})
		assert.Nil(t, b)
		assert.Same(t, closeErr, err)
	})
	t.Run("bad type", func(t *testing.T) {
		b, err := BodyBytes(123)
		assert.Nil(t, b)
		assert.EqualError(t, err, badBodyTypeMsg)
	})
}

func TestNewPart(t *testing.T) {
	p, err := NewPart("file", "a.txt", "text/plain", "hello")
	require.NoError(t, err)
	assert.Equal(t, Part{Name: "file", FileName: "a.txt", ContentType: "text/plain", Data: []byte("hello")}, p)

	_, err = NewPart("file", "", "", 1.5)
	assert.Error(t, err)
}

type closeRecorder struct {
	io.Reader
	closed bool
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.err
}
