// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogama/apiclient/request"
)

// multipartBody writes params as plain fields followed by every part
// into a multipart/form-data body.
func multipartBody(params map[string]interface{}, p *request.Multipart) (body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range sortedKeys(params) {
		if err := w.WriteField(k, fmt.Sprint(params[k])); err != nil {
			return body{}, err
		}
	}
	for _, part := range p.Parts {
		h := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(part.Name))
		if part.FileName != "" {
			disposition += fmt.Sprintf(`; filename="%s"`, escapeQuotes(part.FileName))
			ct := part.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			h.Set("Content-Type", ct)
		} else if part.ContentType != "" {
			h.Set("Content-Type", part.ContentType)
		}
		h.Set("Content-Disposition", disposition)
		pw, err := w.CreatePart(h)
		if err != nil {
			return body{}, err
		}
		if _, err = pw.Write(part.Data); err != nil {
			return body{}, err
		}
	}
	if err := w.Close(); err != nil {
		return body{}, err
	}

	n := int64(buf.Len())
	var r io.Reader = &buf
	if p.Progress != nil {
		r = &progressReader{r: r, total: n, progress: p.Progress}
	}
	return body{reader: r, length: n, contentType: w.FormDataContentType()}, nil
}

// uploadBody streams the file at p.FilePath. The content type is
// guessed from the file extension.
func uploadBody(p *request.Upload) (body, error) {
	f, err := os.Open(p.FilePath)
	if err != nil {
		return body{}, fmt.Errorf("apiclient/transport: upload: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return body{}, fmt.Errorf("apiclient/transport: upload: %w", err)
	}

	ct := mime.TypeByExtension(filepath.Ext(p.FilePath))
	if ct == "" {
		ct = "application/octet-stream"
	}
	var r io.Reader = f
	if p.Progress != nil {
		r = &progressReader{r: f, total: fi.Size(), progress: p.Progress}
	}
	return body{reader: r, length: fi.Size(), contentType: ct}, nil
}

// save writes a download to its destination. Intermediate directories
// are created and a previous file is replaced only once the whole body
// has been received.
func save(r io.Reader, total int64, d *request.Download) (err error) {
	dir := filepath.Dir(d.Destination)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("apiclient/transport: download: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.Destination)+".*")
	if err != nil {
		return fmt.Errorf("apiclient/transport: download: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if d.Progress != nil {
		r = &progressReader{r: r, total: total, progress: d.Progress}
	}
	if _, err = io.Copy(tmp, r); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), d.Destination); err != nil {
		return fmt.Errorf("apiclient/transport: download: %w", err)
	}
	return nil
}

// progressReader reports the running byte count after every read. It
// closes the underlying reader if that is a Closer.
type progressReader struct {
	r        io.Reader
	total    int64
	done     int64
	progress request.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.progress(p.done, p.total)
	}
	return n, err
}

func (p *progressReader) Close() error {
	if c, ok := p.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
