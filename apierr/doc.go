// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package apierr defines the closed set of errors delivered by the
apiclient pipeline:

• *NetworkError, for transport failures and unsuccessful HTTP status
codes (unauthorized, canceled, unsatisfied header, and the codes of the
status table);

• *SerializationError, for failures to deserialize or parse a
successful response body;

• *ExecutorError, wrapping an opaque transport failure;

• *UndefinedError, wrapping anything else;

• *ResolutionError, a failure whose recovery was attempted and failed.

Use errors.Is with the sentinel values, or the Is* helpers, to test for
specific network codes:

	if errors.Is(err, apierr.ErrUnauthorized) {
		...
	}
*/
package apierr
