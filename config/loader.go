// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "APICLIENT"

// DefaultEnvFile is the .env file Load reads when none is given.
const DefaultEnvFile = ".env"

// envKeys lists every scalar key which may be set from the environment.
var envKeys = []string{
	"base_url",
	"transport.http2",
	"transport.max_idle_conns",
	"transport.idle_conn_timeout",
	"retry.times",
	"timeout.attempt",
	"timeout.transfer",
	"log.level",
	"log.format",
	"log.output",
	"log.file",
	"log.max_size_mb",
	"log.max_backups",
	"log.max_age_days",
	"log.compress",
	"log.no_color",
	"rate_limit.requests_per_second",
	"rate_limit.burst",
	"auth.scheme",
	"auth.header",
	"auth.prefix",
	"auth.no_halt",
}

type loader struct {
	envFile string
}

// An Option customizes Load.
type Option func(*loader)

// WithEnvFile sets the .env file Load reads. A missing file is not an
// error.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// Load reads configuration from the file at path, which may be empty,
// and then from the environment. Variables in the .env file are added
// to the environment first but never override variables already set.
//
// The result has its defaults applied and has been validated.
func Load(path string, opts ...Option) (*Config, error) {
	l := loader{envFile: DefaultEnvFile}
	for _, opt := range opts {
		opt(&l)
	}

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("apiclient/config: env file %s: %w", l.envFile, err)
		}
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("apiclient/config: config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("apiclient/config: bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("apiclient/config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
