// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, 30*time.Second, cfg.Timeout.Attempt)
	assert.Equal(t, 5*time.Minute, cfg.Timeout.Transfer)
	assert.Equal(t, 100, cfg.Transport.MaxIdleConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, "bearer", cfg.Auth.Scheme)
	assert.Equal(t, "Authorization", cfg.Auth.Header)
	assert.Equal(t, 0, cfg.RateLimit.Burst)
	assert.NoError(t, cfg.Validate())

	t.Run("rate limit burst", func(t *testing.T) {
		cfg := Config{RateLimit: RateLimit{RequestsPerSecond: 5}}
		cfg.ApplyDefaults()
		assert.Equal(t, 1, cfg.RateLimit.Burst)
	})
	t.Run("file output size", func(t *testing.T) {
		cfg := Config{Log: Log{Output: "file", File: "x.log"}}
		cfg.ApplyDefaults()
		assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"bad base url", func(c *Config) { c.BaseURL = "::nope" }, "Config.BaseURL failed url"},
		{"negative retries", func(c *Config) { c.Retry.Times = -1 }, "Config.Retry.Times failed gte"},
		{"too many retries", func(c *Config) { c.Retry.Times = 11 }, "Config.Retry.Times failed lte"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "Config.Log.Level failed oneof"},
		{"file without path", func(c *Config) { c.Log.Output = "file" }, "Config.Log.File failed required_if"},
		{"bad scheme", func(c *Config) { c.Auth.Scheme = "digest" }, "Config.Auth.Scheme failed oneof"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			testCase.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.errMsg)
		})
	}
	t.Run("all violations", func(t *testing.T) {
		var cfg Config
		cfg.ApplyDefaults()
		cfg.Log.Format = "xml"
		cfg.Auth.Scheme = "digest"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config.Log.Format")
		assert.Contains(t, err.Error(), "Config.Auth.Scheme")
	})
}

func TestLoad(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apiclient.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://api.example.com
retry:
  times: 3
timeout:
  attempt: 2s
log:
  level: debug
  format: console
auth:
  scheme: custom
  prefix: "Token="
  no_halt: true
`), 0o644))

		cfg, err := Load(path, WithEnvFile(""))
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, 3, cfg.Retry.Times)
		assert.Equal(t, 2*time.Second, cfg.Timeout.Attempt)
		assert.Equal(t, 5*time.Minute, cfg.Timeout.Transfer)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "custom", cfg.Auth.Scheme)
		assert.Equal(t, "Token=", cfg.Auth.Prefix)
		assert.True(t, cfg.Auth.NoHalt)
	})
	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apiclient.yml")
		require.NoError(t, os.WriteFile(path, []byte("timeout:\n  attempt: 2s\n"), 0o644))
		t.Setenv("APICLIENT_TIMEOUT_ATTEMPT", "7s")
		t.Setenv("APICLIENT_RETRY_TIMES", "1")

		cfg, err := Load(path, WithEnvFile(""))
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, cfg.Timeout.Attempt)
		assert.Equal(t, 1, cfg.Retry.Times)
	})
	t.Run("env file", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("APICLIENT_LOG_LEVEL=warn\n"), 0o644))
		t.Setenv("APICLIENT_LOG_LEVEL", "")
		os.Unsetenv("APICLIENT_LOG_LEVEL")

		cfg, err := Load("", WithEnvFile(envFile))
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})
	t.Run("missing env file", func(t *testing.T) {
		_, err := Load("", WithEnvFile(filepath.Join(t.TempDir(), "nope.env")))
		assert.NoError(t, err)
	})
	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), WithEnvFile(""))
		assert.Error(t, err)
	})
	t.Run("invalid", func(t *testing.T) {
		t.Setenv("APICLIENT_LOG_FORMAT", "xml")
		_, err := Load("", WithEnvFile(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config.Log.Format failed oneof")
	})
}
