// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads client configuration from a file, a .env file,
// and the environment, then applies defaults and validates it.
//
// Environment variables override file values using the APICLIENT_
// prefix with underscore-separated paths, for example
// APICLIENT_TIMEOUT_ATTEMPT=10s or APICLIENT_LOG_LEVEL=debug.
//
// # Usage
//
//	cfg, err := config.Load("apiclient.yml")
package config
