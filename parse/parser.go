// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parse

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/request"
	"github.com/tidwall/gjson"
)

// KeyPathParser selects the value at KeyPath within a JSON document.
// KeyPath uses gjson path syntax, so dots descend into nested objects
// and '*', '?' and '#' are wildcards. Use Key to look up a single key
// literally.
//
// A null document fails with the NullObject reason. If KeyPath is set
// and the document is an object, the value at KeyPath is selected, or
// the parse fails with the KeyNotFound reason. Any other document is
// selected whole.
type KeyPathParser struct {
	KeyPath string
}

// KeyPath returns a parser selecting the value at path.
func KeyPath(path string) KeyPathParser {
	return KeyPathParser{KeyPath: path}
}

// Key returns a parser selecting the top-level member named name,
// matched literally even if it contains path syntax such as dots.
func Key(name string) KeyPathParser {
	return KeyPathParser{KeyPath: gjson.Escape(name)}
}

// Parse implements apiclient.Parser.
func (p KeyPathParser) Parse(doc interface{}, _ *request.Response) (gjson.Result, error) {
	return p.value(doc)
}

func (p KeyPathParser) value(doc interface{}) (gjson.Result, error) {
	root, ok := doc.(gjson.Result)
	if !ok {
		return gjson.Result{}, apierr.Serialization(apierr.Parsing,
			fmt.Errorf("apiclient/parse: document of type %T is not JSON", doc))
	}
	if root.Type == gjson.Null {
		return gjson.Result{}, apierr.Serialization(apierr.NullObject, nil)
	}
	if p.KeyPath == "" || !root.IsObject() {
		return root, nil
	}
	v := root.Get(p.KeyPath)
	if !v.Exists() {
		return gjson.Result{}, apierr.Serialization(apierr.KeyNotFound,
			fmt.Errorf("apiclient/parse: key path %q", p.KeyPath))
	}
	return v, nil
}

// A Decoder decodes the value at KeyPath into a T, using the same
// selection rules as KeyPathParser.
type Decoder[T any] struct {
	KeyPath string
}

// Decode returns a decoder of the value at keyPath. An empty key path
// decodes the whole document. Wrap a literal key in gjson.Escape.
func Decode[T any](keyPath string) Decoder[T] {
	return Decoder[T]{KeyPath: keyPath}
}

// Parse implements apiclient.Parser.
func (d Decoder[T]) Parse(doc interface{}, _ *request.Response) (T, error) {
	var v T
	r, err := KeyPathParser{KeyPath: d.KeyPath}.value(doc)
	if err != nil {
		return v, err
	}
	if err = json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return v, apierr.Serialization(apierr.Parsing, err)
	}
	return v, nil
}

// Object returns a decoder of the JSON object at keyPath into a map.
func Object(keyPath string) Decoder[map[string]interface{}] {
	return Decode[map[string]interface{}](keyPath)
}

// EmptyParser ignores the document and yields struct{}{}. Use it for
// requests whose response carries no body worth parsing.
type EmptyParser struct{}

// Empty is the empty parser.
var Empty = EmptyParser{}

// Parse implements apiclient.Parser.
func (EmptyParser) Parse(_ interface{}, _ *request.Response) (struct{}, error) {
	return struct{}{}, nil
}
