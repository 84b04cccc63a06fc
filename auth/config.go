// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"github.com/gogama/apiclient"
	"github.com/gogama/apiclient/config"
)

// FromConfig builds an authorization plug-in and a restoration plug-in
// sharing one Store which holds tokens. Pass the plug-ins to
// apiclient.New in the order returned.
func FromConfig(cfg config.Auth, tokens Tokens, restore Restorer) (*Store, []apiclient.Plugin, error) {
	s, err := SchemeOf(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := NewStore(s, tokens)
	rp := NewRestoration(store, restore)
	rp.NoHalt = cfg.NoHalt
	return store, []apiclient.Plugin{&AuthorizationPlugin{Provider: store}, rp}, nil
}
