// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package halt provides the halting service: a gate which, while
// closed, holds requests back in a FIFO queue until an in-flight
// recovery concludes.
//
// When the recovery succeeds every queued task is replayed in enqueue
// order. When it fails every queued task is cancelled instead. Either
// way no task is silently dropped.
package halt
