// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the timeout of each
// transport attempt, including attempts made by a retry or after a
// successful resolution.
//
// Policy is the generic interface. Fixed, Adaptive and ByKind build
// common policies, and Infinite disables attempt timeouts.
package timeout
