// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package cancel provides Token, a handle representing an in-flight
operation which can be cancelled and which runs cleanup callbacks when
it is cancelled.

A Token is returned to callers of apiclient.Execute, and is used
internally to link each transport attempt to the caller's handle:

	tok := cancel.New()
	tok.Register(func() { ... release resources ... })
	...
	tok.Cancel() // Runs the callback exactly once.

Cancel is idempotent and safe for concurrent use. Callbacks registered
after cancellation run immediately.
*/
package cancel
