// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides policies deciding whether a failed attempt
// should be sent again before the client falls back to plug-in
// resolution.
//
// A retry re-sends the already prepared request immediately. There is
// no waiting between attempts. Deciders have constructors for common
// use cases and compose logically, so a useful policy can be assembled
// quickly:
//
//	policy := retry.Times(3).
//	              And(retry.Before(5 * time.Second)).
//	              And(retry.StatusCode(502, 503).Or(retry.TransientErr))
//
// If the built-in functionality is insufficient, implement Decider.
package retry
