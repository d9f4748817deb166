// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log builds the slog loggers used by the library and the CLI.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tombee/consul-operator/internal/tracing"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs in JSON format for machine parsing.
	FormatJSON Format = "json"
	// FormatText outputs logs in human-readable text format.
	FormatText Format = "text"
)

// LevelTrace is more verbose than Debug and is used for request and
// response bodies.
const LevelTrace = slog.Level(-8)

// Standard field keys for structured logging.
const (
	// EndpointKey is the field key for the operator API path.
	EndpointKey = "endpoint"
	// DatacenterKey is the field key for the target datacenter.
	DatacenterKey = "datacenter"
	// AreaIDKey is the field key for network area identifiers.
	AreaIDKey = "area_id"
	// DurationKey is the field key for duration in milliseconds.
	DurationKey = "duration_ms"
	// CorrelationIDKey is the field key for correlation IDs.
	CorrelationIDKey = "correlation_id"
)

// Config holds the logging configuration.
type Config struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	// Default: info
	Level string

	// Format sets the output format (json, text).
	// Default: text
	Format Format

	// Output is the writer for log output.
	// Default: os.Stderr
	Output io.Writer

	// AddSource adds source file and line information to logs.
	AddSource bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: FormatText,
		Output: os.Stderr,
	}
}

// FromEnv creates a Config from environment variables on top of the defaults.
func FromEnv() *Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides c with any logging environment variables that are set.
// Supported environment variables:
//   - CONSUL_OPERATOR_DEBUG: true/1 enables debug level and source logging (takes precedence)
//   - CONSUL_OPERATOR_LOG_LEVEL: trace, debug, info, warn, error (takes precedence over LOG_LEVEL)
//   - LOG_LEVEL: trace, debug, info, warn, error
//   - LOG_FORMAT: json, text
//   - LOG_SOURCE: 1 to enable source file/line
func (c *Config) ApplyEnv() {
	debug := os.Getenv("CONSUL_OPERATOR_DEBUG")
	if debug == "true" || debug == "1" {
		c.Level = "debug"
		c.AddSource = true
	}

	if debug == "" {
		if level := os.Getenv("CONSUL_OPERATOR_LOG_LEVEL"); level != "" {
			c.Level = strings.ToLower(level)
		} else if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.Level = strings.ToLower(level)
		}
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Format = Format(strings.ToLower(format))
	}

	if os.Getenv("LOG_SOURCE") == "1" {
		c.AddSource = true
	}
}

// New creates a new structured logger from the given configuration.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithCorrelation returns a logger carrying the correlation ID from ctx,
// or logger itself when ctx has none.
func WithCorrelation(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := tracing.FromContextOrEmpty(ctx); id != "" {
		return logger.With(CorrelationIDKey, id.String())
	}
	return logger
}

// WithDatacenter returns a logger scoped to a datacenter. An empty name
// leaves the logger unchanged.
func WithDatacenter(logger *slog.Logger, dc string) *slog.Logger {
	if dc == "" {
		return logger
	}
	return logger.With(slog.String(DatacenterKey, dc))
}

// WithArea returns a logger scoped to a network area.
func WithArea(logger *slog.Logger, areaID string) *slog.Logger {
	return logger.With(slog.String(AreaIDKey, areaID))
}

// Error creates an error attribute.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// SanitizeToken masks an ACL token, showing only the last 4 characters.
// Returns "[REDACTED]" if the token is 8 characters or shorter.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "[REDACTED]"
	}
	return "..." + token[len(token)-4:]
}
