// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete client configuration.
type Config struct {
	// BaseURL is joined with every relative request path.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	Transport Transport `mapstructure:"transport"`
	Retry     Retry     `mapstructure:"retry"`
	Timeout   Timeout   `mapstructure:"timeout"`
	Log       Log       `mapstructure:"log"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
	Auth      Auth      `mapstructure:"auth"`
}

// Transport configures the HTTP transport.
type Transport struct {
	// Header is added to every outgoing request.
	Header          map[string]string `mapstructure:"header"`
	HTTP2           bool              `mapstructure:"http2"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"gte=0"`
	IdleConnTimeout time.Duration     `mapstructure:"idle_conn_timeout" validate:"gte=0"`
}

// Retry configures immediate re-sends of idempotent requests whose
// attempt failed with a transient error. Zero disables retries.
type Retry struct {
	Times int `mapstructure:"times" validate:"gte=0,lte=10"`
}

// Timeout configures per-attempt timeouts. Attempt applies to plain
// requests and Transfer to multipart, upload and download requests.
type Timeout struct {
	Attempt  time.Duration `mapstructure:"attempt" validate:"gt=0"`
	Transfer time.Duration `mapstructure:"transfer" validate:"gt=0"`
}

// Log configures the client logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Output string `mapstructure:"output" validate:"oneof=stdout stderr file"`
	// File is the log file path. It is required when Output is file.
	File       string `mapstructure:"file" validate:"required_if=Output file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
	NoColor    bool   `mapstructure:"no_color"`
}

// RateLimit configures outgoing request throttling. A zero rate
// disables throttling.
type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}

// Auth configures how credentials are attached and recovered.
type Auth struct {
	// Scheme is one of bearer, basic, token or custom.
	Scheme string `mapstructure:"scheme" validate:"oneof=bearer basic token custom"`
	// Header overrides the header name. It defaults to Authorization.
	Header string `mapstructure:"header"`
	// Prefix is the exact value prefix of a custom scheme.
	Prefix string `mapstructure:"prefix"`
	// NoHalt lets other requests keep flowing while credentials are
	// being restored. Requests that fail authorization meanwhile are
	// still held until the restoration concludes.
	NoHalt bool `mapstructure:"no_halt"`
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Timeout.Attempt == 0 {
		c.Timeout.Attempt = 30 * time.Second
	}
	if c.Timeout.Transfer == 0 {
		c.Timeout.Transfer = 5 * time.Minute
	}
	if c.Transport.MaxIdleConns == 0 {
		c.Transport.MaxIdleConns = 100
	}
	if c.Transport.IdleConnTimeout == 0 {
		c.Transport.IdleConnTimeout = 90 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
	if c.Log.Output == "file" && c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 1
	}
	if c.Auth.Scheme == "" {
		c.Auth.Scheme = "bearer"
	}
	if c.Auth.Header == "" {
		c.Auth.Header = "Authorization"
	}
}

// Validate checks the configuration against its constraints. It
// reports every violation, not just the first.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("apiclient/config: %w", err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("apiclient/config: invalid configuration: %s", strings.Join(msgs, "; "))
}

var (
	validateOnce sync.Once
	v            *validator.Validate
)

func validate() *validator.Validate {
	validateOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}
