// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ratelimit provides a plug-in throttling the requests a client
// sends, using token bucket limiters from golang.org/x/time/rate.
package ratelimit
