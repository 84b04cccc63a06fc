// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 2

// DefaultPolicy is a general-purpose retry policy suitable for common
// use cases. It allows up to DefaultTimes retries of an idempotent
// request whose attempt failed with a transient transport error.
//
// DefaultPolicy never retries on a status code. Unsuccessful responses
// go straight to plug-in resolution.
var DefaultPolicy Decider = Times(DefaultTimes).And(Idempotent).And(TransientErr)

// Never is a policy that never retries. It is useful if you want the
// other features of apiclient.Client but want every failed attempt to
// go straight to resolution.
var Never Decider = Times(0)
