// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package parse provides the JSON deserializer and the parsers which
// turn its documents into typed results.
//
// The deserializer produces a gjson.Result. Parsers select a value by
// key path, using gjson path syntax, and decode it:
//
//	user, err := apiclient.Get(client, ctx, "/me", parse.Decode[User]("data.user"))
package parse
