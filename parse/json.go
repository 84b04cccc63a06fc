// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parse

import (
	"errors"

	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/request"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is the cause of a deserialization error for a body
// which is not valid JSON.
var ErrInvalidJSON = errors.New("apiclient/parse: invalid JSON")

// JSONDeserializer deserializes response bodies as JSON documents of
// type gjson.Result. An empty body deserializes to the zero
// gjson.Result, which does not exist.
type JSONDeserializer struct{}

// JSON is the JSON deserializer.
var JSON = JSONDeserializer{}

// Deserialize implements apiclient.Deserializer.
func (JSONDeserializer) Deserialize(resp *request.Response) (interface{}, error) {
	if resp == nil || len(resp.Body) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, apierr.Serialization(apierr.Deserialization, ErrInvalidJSON)
	}
	return gjson.ParseBytes(resp.Body), nil
}
