// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package config provides layered configuration for fingertipsgo.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (FINGERTIPS_* prefix)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Struct validation uses go-playground/validator v10; a configuration that
// fails validation is rejected at load time rather than surfacing as a
// request-time error.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the public Fingertips API root.
const DefaultBaseURL = "https://fingertips.phe.org.uk/api"

// Config is the root configuration for the CLI and serving facade.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig configures the outbound Fingertips API client.
type APIConfig struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout" validate:"required,min=1s,max=10m"`

	// RequestsPerSecond caps the outbound request rate. Zero disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0,max=1000"`

	// InsecureSkipVerify disables TLS certificate verification for outbound
	// calls. Verification is on by default; this opt-out exists for parity
	// with legacy deployments behind intercepting proxies.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`

	// Proxy is an optional outbound proxy URL. Empty uses the environment proxy.
	Proxy string `koanf:"proxy" validate:"omitempty,url"`
}

// ServerConfig configures the optional local HTTP facade (`fingertips serve`).
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// RateLimitRequests is the number of requests allowed per IP per
	// RateLimitWindow.
	RateLimitRequests int `koanf:"rate_limit_requests" validate:"min=1,max=100000"`

	// RateLimitWindow is the rate limit measurement window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"required,min=1s"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if ok := asValidationErrors(err, &errs); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("invalid configuration: field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// asValidationErrors unwraps err into validator.ValidationErrors if possible.
func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok { //nolint:errorlint // validator returns this concrete type
		*target = errs
		return true
	}
	return false
}
