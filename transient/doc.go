// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transient classifies transport errors into categories of
transience. The client uses it twice: the retry package decides whether
to resend an attempt, and the apierr package maps transport failures
into network error codes.
*/
package transient
