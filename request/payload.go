// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
)

const badBodyTypeMsg = "apiclient/request: invalid type (for part body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// A Payload is the variant-specific part of a Request. The only
// implementations are *Multipart, *Upload, and *Download.
type Payload interface {
	kind() Kind
}

// A ProgressFunc receives transfer progress. Total is -1 when the
// total size is not known.
type ProgressFunc func(completed, total int64)

// Multipart is the payload of a multipart/form-data request.
type Multipart struct {
	// Parts are written in order.
	Parts []Part
	// Progress, if non-nil, receives upload progress.
	Progress ProgressFunc
}

func (*Multipart) kind() Kind { return MultipartKind }

// Upload is the payload of a request which streams a file as its body.
type Upload struct {
	// FilePath is the file sent as the request body.
	FilePath string
	// Progress, if non-nil, receives upload progress.
	Progress ProgressFunc
}

func (*Upload) kind() Kind { return UploadKind }

// Download is the payload of a request whose response body is saved
// to a file.
type Download struct {
	// Destination is the path the response body is written to. If
	// empty, the body is only kept in memory.
	Destination string
	// Progress, if non-nil, receives download progress.
	Progress ProgressFunc
}

func (*Download) kind() Kind { return DownloadKind }

// A Part is one field of a multipart/form-data body.
type Part struct {
	// Name is the form field name.
	Name string
	// FileName, if set, makes the part a file field.
	FileName string
	// ContentType of a file field. Defaults to
	// application/octet-stream.
	ContentType string
	// Data is the pre-buffered content of the part.
	Data []byte
}

// NewPart returns a Part whose data is the buffered contents of body.
//
// The body parameter may be nil, or it may be a string, []byte,
// io.Reader, or io.ReadCloser.
func NewPart(name, fileName, contentType string, body interface{}) (Part, error) {
	b, err := BodyBytes(body)
	if err != nil {
		return Part{}, err
	}
	return Part{
		Name:        name,
		FileName:    fileName,
		ContentType: contentType,
		Data:        b,
	}, nil
}

// BodyBytes converts a generic body parameter to a byte slice.
//
// The conversion logic is:
//
// • If body is nil, a nil byte slice and no error is returned.
//
// • If body is a []byte, body itself and no error is returned.
//
// • If body is a string, the built-in conversion from string to byte
// slice, and no error, is returned.
//
// • If body is an io.Reader or io.ReadCloser, the result of reading
// the whole contents of the reader (and closing it if it implements
// Closer) is returned.
//
// • If body is any other type, a nil byte slice and an error is
// returned.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}
