// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport sends API requests over HTTP.
//
// HTTP implements the client's transport interface on top of any
// HTTPDoer, typically a net/http Client. It resolves request paths
// against a base URL, encodes parameters, streams multipart and upload
// bodies with progress reporting, and saves downloads to disk.
package transport
