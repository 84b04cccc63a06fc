// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package log builds the zerolog logger a client writes to, from
// configuration. It supports JSON and console formats, written to
// standard output, standard error, or a rotating file.
package log
