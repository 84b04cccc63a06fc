// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package apiclient orchestrates API requests: it prepares them through a
chain of plug-ins, sends them through a transport, validates the
outcome, recovers from failures such as expired credentials, and
delivers a parsed result exactly once.

Create a Client to begin making requests. The zero value works against
absolute URLs with JSON responses.

	client := &apiclient.Client{}
	user, err := apiclient.Get(client, ctx, "https://api.example.com/me",
		parse.Decode[User]("data.user"))

For asynchronous use, Execute returns immediately with a handle which
cancels the request, and reports the outcome through a callback:

	r, _ := request.New(http.MethodGet, "/me")
	r.AuthorizationRequired = true
	handle := apiclient.Execute(client, ctx, r, parse.Decode[User]("data.user"),
		func(res apiclient.Result[User]) {
			...
		})
	...
	handle.Cancel()

To build a client from configuration files and environment variables,
use package config and New:

	cfg, err := config.Load("")
	...
	client, err := apiclient.New(*cfg, authPlugin, restorePlugin)

Plug-ins extend every stage of the pipeline. Package auth provides
credential attachment and recovery, package metrics exports Prometheus
metrics, and package ratelimit throttles outgoing requests. Embed
NopPlugin to write your own:

	type stamp struct{ apiclient.NopPlugin }

	func (stamp) Prepare(_ context.Context, r *request.Request, done func(*request.Request, error)) {
		done(r.WithHeader("X-Client", "example"), nil)
	}

All delivered errors belong to the taxonomy in package apierr.
*/
package apiclient
