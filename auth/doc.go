// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package auth provides the plug-ins which attach credentials to
authorizable requests and recover from authorization failures.

AuthorizationPlugin adds the authorization header to every request whose
origin has AuthorizationRequired set. RestorationPlugin claims
authorization failures of such requests and exchanges the stored
exchange token for fresh credentials. Install both, authorization
first:

	store := auth.NewStore(auth.Bearer, auth.Tokens{AccessToken: a, ExchangeToken: x})
	client := &apiclient.Client{
		Plugins: []apiclient.Plugin{
			&auth.AuthorizationPlugin{Provider: store},
			auth.NewRestoration(store, refresh),
		},
	}

While a restoration is running, the client holds back every other
request and replays them once fresh credentials are committed.
*/
package auth
