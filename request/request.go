// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	"strings"
)

// An Encoding specifies how a request's parameters are encoded by the
// transport.
type Encoding int

const (
	// JSON encodes parameters as a JSON object in the request body.
	JSON Encoding = iota
	// JSONPercent encodes parameters as a JSON object whose keys and
	// values are percent-escaped strings.
	JSONPercent
	// URL encodes parameters into the URL query string.
	URL
)

var encodingNames = []string{"JSON", "JSONPercent", "URL"}

// String returns the name of the encoding.
func (enc Encoding) String() string {
	if enc < 0 || int(enc) >= len(encodingNames) {
		return fmt.Sprintf("Encoding(%d)", int(enc))
	}
	return encodingNames[enc]
}

// A Kind identifies which variant of Request a request is.
type Kind int

const (
	// Plain is a request with parameters but no variant payload.
	Plain Kind = iota
	// MultipartKind is a multipart/form-data request.
	MultipartKind
	// UploadKind streams a file as the request body.
	UploadKind
	// DownloadKind stores the response body at a destination path.
	DownloadKind
)

var kindNames = []string{"plain", "multipart", "upload", "download"}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// A Request describes a logical API request.
//
// The transport turns a Request into one or more lower-level HTTP
// requests. Retries and credential recovery may cause the same logical
// request to be sent more than once.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// Path is resolved against the transport's base URL. It may also
	// be an absolute URL.
	Path string

	// Encoding selects how Parameters are encoded.
	Encoding Encoding

	// Parameters maps parameter names to values.
	Parameters map[string]interface{}

	// Header maps header names to values.
	Header map[string]string

	// AuthorizationRequired marks the request as authorizable: the
	// authorization plug-in attaches credentials to it, and the
	// restoration plug-in may recover it from authorization failures.
	AuthorizationRequired bool

	// Payload holds the variant-specific data. A nil Payload makes
	// the request Plain.
	Payload Payload

	origin *Request
}

// New returns a new plain Request given a method and path.
func New(method, path string) (*Request, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("apiclient/request: invalid method %q", method)
	}
	return &Request{
		Method:     method,
		Path:       path,
		Parameters: map[string]interface{}{},
		Header:     map[string]string{},
	}, nil
}

// Kind returns the variant of the request, derived from its payload.
func (r *Request) Kind() Kind {
	if r.Payload == nil {
		return Plain
	}
	return r.Payload.kind()
}

// Origin returns the request that r was ultimately derived from. For a
// request that is not a proxy, Origin returns r itself.
func (r *Request) Origin() *Request {
	if r.origin != nil {
		return r.origin
	}
	return r
}

// IsProxy reports whether r was derived from another request.
func (r *Request) IsProxy() bool {
	return r.origin != nil
}

// IsAuthorizable reports whether the origin of r requires
// authorization.
func (r *Request) IsAuthorizable() bool {
	return r.Origin().AuthorizationRequired
}

// Proxy returns a copy of r whose origin is r's origin. The maps are
// copied, so the proxy may be changed freely without affecting r. The
// variant payload is shared, since payloads are never mutated.
func (r *Request) Proxy() *Request {
	p := &Request{
		Method:                r.Method,
		Path:                  r.Path,
		Encoding:              r.Encoding,
		Parameters:            make(map[string]interface{}, len(r.Parameters)),
		Header:                make(map[string]string, len(r.Header)),
		AuthorizationRequired: r.AuthorizationRequired,
		Payload:               r.Payload,
		origin:                r.Origin(),
	}
	for k, v := range r.Parameters {
		p.Parameters[k] = v
	}
	for k, v := range r.Header {
		p.Header[k] = v
	}
	return p
}

// WithHeader returns a proxy of r with header key set to value.
func (r *Request) WithHeader(key, value string) *Request {
	p := r.Proxy()
	p.Header[key] = value
	return p
}

// WithParameter returns a proxy of r with parameter key set to value.
func (r *Request) WithParameter(key string, value interface{}) *Request {
	p := r.Proxy()
	p.Parameters[key] = value
	return p
}

// A Modifier adjusts the transport-level HTTP request built for r just
// before it is issued. The client composes the Modifier from its
// plug-in chain and hands it to the transport.
type Modifier func(hr *http.Request, r *Request) *http.Request

func validMethod(method string) bool {
	/*
	     Method         = "OPTIONS"                ; Section 9.2
	                    | "GET"                    ; Section 9.3
	                    | "HEAD"                   ; Section 9.4
	                    | "POST"                   ; Section 9.5
	                    | "PUT"                    ; Section 9.6
	                    | "DELETE"                 ; Section 9.7
	                    | "TRACE"                  ; Section 9.8
	                    | "CONNECT"                ; Section 9.9
	                    | extension-method
	   extension-method = token
	     token          = 1*<any CHAR except CTLs or separators>
	*/
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !isTokenRune(r)
}

// isTokenRune is lifted verbatim from x/net/http/httpguts/httplex.go
// (but converted to non-exported). It classifies a rune as being valid
// for a token as defined in https://tools.ietf.org/html/rfc7230#section-3.2.6
func isTokenRune(r rune) bool {
	i := int(r)
	return i < len(isTokenTable) && isTokenTable[i]
}

var isTokenTable = [127]bool{
	'!': true, '#': true, '$': true, '%': true, '&': true, '\'': true,
	'*': true, '+': true, '-': true, '.': true, '^': true, '_': true,
	'`': true, '|': true, '~': true,
	'0': true, '1': true, '2': true, '3': true, '4': true,
	'5': true, '6': true, '7': true, '8': true, '9': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true,
	'G': true, 'H': true, 'I': true, 'J': true, 'K': true, 'L': true,
	'M': true, 'N': true, 'O': true, 'P': true, 'Q': true, 'R': true,
	'S': true, 'T': true, 'U': true, 'V': true, 'W': true, 'X': true,
	'Y': true, 'Z': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true,
	'g': true, 'h': true, 'i': true, 'j': true, 'k': true, 'l': true,
	'm': true, 'n': true, 'o': true, 'p': true, 'q': true, 'r': true,
	's': true, 't': true, 'u': true, 'v': true, 'w': true, 'x': true,
	'y': true, 'z': true,
}
