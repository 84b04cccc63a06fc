// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Request (describes a logical API
request), Response (the raw outcome of one transport attempt), and
Execution (describes the state of one logical request moving through the
client pipeline).

A Request is a tagged union. The shared fields (method, path, encoding,
parameters, and headers) are common to every kind of request, and the
Payload field selects the variant:

	r, err := request.New("GET", "users/me")         // Plain
	r.Payload = &request.Multipart{Parts: parts}       // Multipart
	r.Payload = &request.Upload{FilePath: "a.bin"}     // Upload
	r.Payload = &request.Download{Destination: "out"}  // Download

Requests are treated as immutable once handed to the client. Plug-ins
which need to change a request derive a proxy instead of mutating the
input:

	p := r.WithHeader("X-Trace", "abc")
	p.Origin() == r // true

The proxy remembers the request it was derived from, so identity checks
such as IsAuthorizable keep working no matter how many proxies deep a
request is.

Execution is the record the client keeps for one logical request. It is
handed to retry and timeout policies, and it carries the pipeline State.
You will typically not allocate Execution instances yourself.
*/
package request
