// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Response is the raw outcome of one transport attempt. It is
// produced once per attempt and never mutated afterward.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header contains the response headers.
	Header http.Header
	// Body is the complete, buffered response body.
	Body []byte
}

// IsSuccess reports whether the status code is in [200,300).
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
