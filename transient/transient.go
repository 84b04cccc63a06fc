// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"syscall"
)

// A Category is the transience category of a particular error, as
// reported by function Categorize.
//
// The category Not means the error is not transient, or in other words
// that resending the request after this error is very unlikely to
// succeed. All other categories indicate some prospect of success on
// a resend.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED), which happens while a service restarts.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// ConnAborted indicates the connection was aborted locally
	// (syscall.ECONNABORTED) or the pipe broke (syscall.EPIPE).
	ConnAborted
	// ConnClosed indicates the connection closed before the response
	// was complete (io.ErrUnexpectedEOF or io.EOF).
	ConnClosed
)

var categoryNames = []string{"Not", "Timeout", "ConnRefused", "ConnReset", "ConnAborted", "ConnClosed"}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of the given error. A nil
// error, and an error that is not transient, both produce Not.
//
// Categorize looks at wrapped causes, not just err itself. It never
// consults a Temporary() function, as its semantics aren't clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		case syscall.ECONNABORTED, syscall.EPIPE:
			return ConnAborted
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return ConnClosed
	}

	return Not
}

// Is reports whether err is transient, that is, whether its category
// is anything other than Not.
func Is(err error) bool {
	return Categorize(err) != Not
}

type hasTimeout interface {
	Timeout() bool
}
