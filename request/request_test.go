// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default method", func(t *testing.T) {
		r, err := New("", "users")
		require.NoError(t, err)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "users", r.Path)
		assert.NotNil(t, r.Parameters)
		assert.NotNil(t, r.Header)
		assert.Equal(t, Plain, r.Kind())
		assert.False(t, r.IsProxy())
	})
	t.Run("extension method", func(t *testing.T) {
		r, err := New("PURGE", "cache")
		require.NoError(t, err)
		assert.Equal(t, "PURGE", r.Method)
	})
	t.Run("invalid method", func(t *testing.T) {
		for _, m := range []string{"GE T", "G\tET", "(GET)", "GÉT"} {
			r, err := New(m, "x")
			assert.Nil(t, r)
			assert.EqualError(t, err, fmt.Sprintf("apiclient/request: invalid method %q", m))
		}
	})
}

func TestRequest_Kind(t *testing.T) {
	r := &Request{}
	assert.Equal(t, Plain, r.Kind())
	r.Payload = &Multipart{}
	assert.Equal(t, MultipartKind, r.Kind())
	r.Payload = &Upload{}
	assert.Equal(t, UploadKind, r.Kind())
	r.Payload = &Download{}
	assert.Equal(t, DownloadKind, r.Kind())
	assert.Equal(t, "download", r.Kind().String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestRequest_Proxy(t *testing.T) {
	r, err := New("POST", "items")
	require.NoError(t, err)
	r.Encoding = URL
	r.Parameters["a"] = 1
	r.Header["X"] = "x"
	r.AuthorizationRequired = true
	r.Payload = &Upload{FilePath: "f"}

	t.Run("copies fields", func(t *testing.T) {
		p := r.Proxy()
		assert.NotSame(t, r, p)
		assert.Equal(t, r.Method, p.Method)
		assert.Equal(t, r.Path, p.Path)
		assert.Equal(t, URL, p.Encoding)
		assert.Equal(t, r.Parameters, p.Parameters)
		assert.Equal(t, r.Header, p.Header)
		assert.True(t, p.AuthorizationRequired)
		assert.Same(t, r.Payload, p.Payload)
		assert.Equal(t, UploadKind, p.Kind())
		assert.True(t, p.IsProxy())
	})
	t.Run("independent maps", func(t *testing.T) {
		p := r.Proxy()
		p.Header["Y"] = "y"
		p.Parameters["b"] = 2
		assert.NotContains(t, r.Header, "Y")
		assert.NotContains(t, r.Parameters, "b")
	})
	t.Run("origin preserved", func(t *testing.T) {
		p := r.Proxy().Proxy().WithHeader("Z", "z").WithParameter("c", 3)
		assert.Same(t, r, p.Origin())
		assert.Same(t, r, r.Origin())
		assert.Equal(t, "z", p.Header["Z"])
		assert.Equal(t, 3, p.Parameters["c"])
	})
	t.Run("authorizable follows origin", func(t *testing.T) {
		p := r.Proxy()
		p.AuthorizationRequired = false
		assert.True(t, p.IsAuthorizable())
		q, err := New("GET", "public")
		require.NoError(t, err)
		qp := q.Proxy()
		qp.AuthorizationRequired = true
		assert.False(t, qp.IsAuthorizable())
	})
}

func TestEncoding_String(t *testing.T) {
	assert.Equal(t, "JSON", JSON.String())
	assert.Equal(t, "JSONPercent", JSONPercent.String())
	assert.Equal(t, "URL", URL.String())
	assert.Equal(t, "Encoding(-1)", Encoding(-1).String())
}
