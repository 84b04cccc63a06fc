// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"fmt"
	"net/http"

	"github.com/gogama/apiclient/config"
)

// A Scheme describes how a token is written into a request header.
type Scheme struct {
	// Header is the header name. An empty Header means Authorization.
	Header string
	// Prefix precedes the token in the header value.
	Prefix string
	// Custom makes Prefix exact. Otherwise a non-empty Prefix is
	// separated from the token by a single space.
	Custom bool
}

// Standard schemes, all using the Authorization header.
var (
	Bearer = Scheme{Prefix: "Bearer"}
	Basic  = Scheme{Prefix: "Basic"}
	Token  = Scheme{Prefix: "Token"}
)

// Custom returns a scheme writing prefix+token into header.
func Custom(header, prefix string) Scheme {
	return Scheme{Header: header, Prefix: prefix, Custom: true}
}

// Key returns the header name.
func (s Scheme) Key() string {
	if s.Header == "" {
		return "Authorization"
	}

	return s.Header
}

// Value returns the header value carrying token.
func (s Scheme) Value(token string) string {
	switch {
	case s.Custom:
		return s.Prefix + token
	case s.Prefix != "":
		return s.Prefix + " " + token
	default:
		return token
	}
}

// SchemeOf returns the scheme selected by cfg.
func SchemeOf(cfg config.Auth) (Scheme, error) {
	var s Scheme
	switch cfg.Scheme {
	case "", "bearer":
		s = Bearer
	case "basic":
		s = Basic
	case "token":
		s = Token
	case "custom":
		s = Custom("", cfg.Prefix)
	default:
		return Scheme{}, fmt.Errorf("apiclient/auth: unknown scheme %q", cfg.Scheme)
	}
	if cfg.Header != "" {
		s.Header = http.CanonicalHeaderKey(cfg.Header)
	}
	return s, nil
}
