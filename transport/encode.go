// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gogama/apiclient/request"
	"github.com/tidwall/sjson"
)

// body is an encoded request body. A nil reader means no body.
type body struct {
	reader      io.Reader
	length      int64
	contentType string
}

func bytesBody(b []byte, contentType string) body {
	return body{reader: bytes.NewReader(b), length: int64(len(b)), contentType: contentType}
}

// encode encodes params according to enc. URL encoding adds them to
// the query of u, the JSON encodings produce a body. Empty parameters
// produce nothing.
func encode(u *url.URL, enc request.Encoding, params map[string]interface{}) (body, error) {
	if len(params) == 0 {
		return body{}, nil
	}

	switch enc {
	case request.JSON:
		b, err := json.Marshal(params)
		if err != nil {
			return body{}, fmt.Errorf("apiclient/transport: json encoding: %w", err)
		}
		return bytesBody(b, "application/json"), nil
	case request.JSONPercent:
		b, err := jsonPercent(params)
		if err != nil {
			return body{}, err
		}
		return bytesBody(b, "application/json"), nil
	case request.URL:
		q := query(params)
		if u.RawQuery != "" {
			u.RawQuery += "&" + q
		} else {
			u.RawQuery = q
		}
		return body{}, nil
	default:
		return body{}, fmt.Errorf("apiclient/transport: unknown encoding %v", enc)
	}
}

// jsonPercent builds a flat JSON object whose keys and values are the
// percent-escaped string forms of params.
func jsonPercent(params map[string]interface{}) ([]byte, error) {
	b := []byte("{}")
	for _, k := range sortedKeys(params) {
		var err error
		b, err = sjson.SetBytes(b, escapePath(percentEscape(k)), percentEscape(fmt.Sprint(params[k])))
		if err != nil {
			return nil, fmt.Errorf("apiclient/transport: json percent encoding: %w", err)
		}
	}
	return b, nil
}

// query encodes params as a query string. Nested maps become key[sub]
// and slices become repeated key[] components. Booleans encode as 1
// and 0.
func query(params map[string]interface{}) string {
	var parts []string
	for _, k := range sortedKeys(params) {
		parts = append(parts, queryComponents(k, params[k])...)
	}
	return strings.Join(parts, "&")
}

func queryComponents(key string, value interface{}) []string {
	switch v := value.(type) {
	case map[string]interface{}:
		var parts []string
		for _, k := range sortedKeys(v) {
			parts = append(parts, queryComponents(key+"["+k+"]", v[k])...)
		}
		return parts
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, queryComponents(key+"[]", e)...)
		}
		return parts
	case []string:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, queryComponents(key+"[]", e)...)
		}
		return parts
	case bool:
		if v {
			return []string{url.QueryEscape(key) + "=1"}
		}
		return []string{url.QueryEscape(key) + "=0"}
	default:
		return []string{url.QueryEscape(key) + "=" + url.QueryEscape(fmt.Sprint(v))}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// percentEscape escapes every byte outside the characters allowed in a
// URL query.
func percentEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if queryAllowed(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0xF])
	}
	return sb.String()
}

func queryAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~!$&'()*+,;=:@/?", c) >= 0
}

// escapePath escapes the characters sjson treats as path syntax. An
// all-digit key gets the ':' prefix so it stays an object key.
func escapePath(key string) string {
	var sb strings.Builder
	if key != "" && strings.Trim(key, "0123456789") == "" {
		sb.WriteByte(':')
	}
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '!', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(key[i])
	}
	return sb.String()
}
