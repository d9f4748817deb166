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

// Package config loads the CLI configuration file and merges it with the
// environment.
//
// Sources are layered with the following precedence, highest first:
// command-line flags, environment variables (including a .env file in the
// working directory), the YAML config file, and built-in defaults. Flags are
// applied by the caller; this package handles the remaining layers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/tombee/consul-operator/internal/log"
	"github.com/tombee/consul-operator/internal/tracing"
	"github.com/tombee/consul-operator/pkg/consul"
	operrors "github.com/tombee/consul-operator/pkg/errors"
)

// Config is the on-disk CLI configuration.
type Config struct {
	// Address is the agent address, as accepted by consul.Config.
	Address string `yaml:"address"`

	// Datacenter is the default datacenter for every command.
	Datacenter string `yaml:"datacenter"`

	// Namespace and Partition are Enterprise defaults.
	Namespace string `yaml:"namespace"`
	Partition string `yaml:"partition"`

	// Token is an ACL token. Prefer token_file or `consul-operator login`.
	Token string `yaml:"token"`

	// TokenFile is a file holding the ACL token. "~" is expanded.
	TokenFile string `yaml:"token_file"`

	TLS     TLSConfig     `yaml:"tls"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

// TLSConfig configures HTTPS to the agent. File paths may start with "~".
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	CAFile             string `yaml:"ca_file"`
	CAPath             string `yaml:"ca_path"`
	CertFile           string `yaml:"cert_file"`
	KeyFile            string `yaml:"key_file"`
	ServerName         string `yaml:"server_name"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// HTTPConfig tunes the transport stack.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	RetryAttempts *int          `yaml:"retry_attempts"`
	RateLimit     float64       `yaml:"rate_limit"`
	RateBurst     int           `yaml:"rate_burst"`
}

// LogConfig sets the CLI's own diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig selects a span exporter.
type TracingConfig struct {
	// Exporter is "none", "console", "otlp" or "otlp-http".
	Exporter string            `yaml:"exporter"`
	Endpoint string            `yaml:"endpoint"`
	Headers  map[string]string `yaml:"headers"`
	Insecure bool              `yaml:"insecure"`

	// SampleRate is the fraction of traces kept, between 0 and 1.
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns an empty configuration. Every field falls through to the
// environment or the library defaults.
func Default() *Config {
	return &Config{}
}

// Load reads the config file at path. An empty path selects the default
// location, which is allowed to be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, &operrors.ConfigError{Key: "config_file", Reason: "invalid path " + path, Cause: err}
	}

	if err := cfg.loadFromFile(expanded); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, &operrors.ConfigError{
			Key:    "config_file",
			Reason: fmt.Sprintf("failed to load from %s", expanded),
			Cause:  err,
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.TokenFile, &c.TLS.CAFile, &c.TLS.CAPath, &c.TLS.CertFile, &c.TLS.KeyFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return &operrors.ConfigError{Key: "path", Reason: "cannot expand " + *p, Cause: err}
		}
		*p = expanded
	}
	return nil
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "", string(log.FormatJSON), string(log.FormatText):
	default:
		return &operrors.ConfigError{Key: "log.format", Reason: fmt.Sprintf("unknown format %q (expected json or text)", c.Log.Format)}
	}

	switch c.Tracing.Exporter {
	case "", "none", "console", "otlp", "otlp-http", "otlp_http":
	default:
		return &operrors.ConfigError{Key: "tracing.exporter", Reason: fmt.Sprintf("unknown exporter %q", c.Tracing.Exporter)}
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return &operrors.ConfigError{Key: "tracing.sample_rate", Reason: "must be between 0 and 1"}
	}

	if c.HTTP.Timeout < 0 {
		return &operrors.ConfigError{Key: "http.timeout", Reason: "must be >= 0"}
	}
	if c.HTTP.RetryAttempts != nil && *c.HTTP.RetryAttempts < 0 {
		return &operrors.ConfigError{Key: "http.retry_attempts", Reason: "must be >= 0"}
	}
	if c.HTTP.RateLimit < 0 {
		return &operrors.ConfigError{Key: "http.rate_limit", Reason: "must be >= 0"}
	}

	return nil
}

// LoadDotEnv loads dir/.env into the process environment if it exists.
// Variables already set are left alone.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &operrors.ConfigError{Key: "dotenv", Reason: "failed to load " + path, Cause: err}
	}
	return nil
}

// Apply fills base, normally consul.DefaultConfig(), with file values for
// every setting the environment left empty.
func (c *Config) Apply(base *consul.Config) {
	if c.Address != "" && unset(consul.HTTPAddrEnvName) {
		base.Address = c.Address
	}
	if c.Datacenter != "" {
		base.Datacenter = c.Datacenter
	}
	if c.Namespace != "" && unset(consul.HTTPNamespaceEnvName) {
		base.Namespace = c.Namespace
	}
	if c.Partition != "" && unset(consul.HTTPPartitionEnvName) {
		base.Partition = c.Partition
	}

	// Either token variable outranks both file settings.
	if unset(consul.HTTPTokenEnvName) && unset(consul.HTTPTokenFileEnvName) {
		if c.Token != "" {
			base.Token = c.Token
		}
		if c.TokenFile != "" {
			base.TokenFile = c.TokenFile
		}
	}

	if c.TLS.Enabled && unset(consul.HTTPSSLEnvName) {
		base.Scheme = "https"
	}
	if c.TLS.InsecureSkipVerify && unset(consul.HTTPSSLVerifyEnvName) {
		base.TLS.InsecureSkipVerify = true
	}
	setIfUnset(&base.TLS.CAFile, c.TLS.CAFile, consul.HTTPCAFileEnvName)
	setIfUnset(&base.TLS.CAPath, c.TLS.CAPath, consul.HTTPCAPathEnvName)
	setIfUnset(&base.TLS.CertFile, c.TLS.CertFile, consul.HTTPClientCertEnvName)
	setIfUnset(&base.TLS.KeyFile, c.TLS.KeyFile, consul.HTTPClientKeyEnvName)
	setIfUnset(&base.TLS.Address, c.TLS.ServerName, consul.HTTPTLSServerNameEnvName)

	if c.HTTP.Timeout > 0 {
		base.HTTP.Timeout = c.HTTP.Timeout
	}
	if c.HTTP.RetryAttempts != nil {
		base.HTTP.RetryAttempts = *c.HTTP.RetryAttempts
	}
	if c.HTTP.RateLimit > 0 {
		base.HTTP.RateLimit = c.HTTP.RateLimit
		base.HTTP.RateBurst = c.HTTP.RateBurst
	}
}

// LogConfig returns the logging configuration: defaults, then the file,
// then the environment.
func (c *Config) LogConfig() *log.Config {
	cfg := log.DefaultConfig()
	if c.Log.Level != "" {
		cfg.Level = strings.ToLower(c.Log.Level)
	}
	if c.Log.Format != "" {
		cfg.Format = log.Format(strings.ToLower(c.Log.Format))
	}
	cfg.ApplyEnv()
	return cfg
}

// TracingConfig returns the exporter configuration for this build.
func (c *Config) TracingConfig(version string) tracing.Config {
	cfg := tracing.DefaultConfig()
	if version != "" {
		cfg.ServiceVersion = version
	}
	if c.Tracing.Exporter != "" {
		cfg.Exporter.Type = c.Tracing.Exporter
	}
	cfg.Exporter.Endpoint = c.Tracing.Endpoint
	cfg.Exporter.Headers = c.Tracing.Headers
	cfg.Exporter.TLS.Enabled = !c.Tracing.Insecure
	cfg.Exporter.TLS.VerifyCertificate = !c.Tracing.Insecure
	cfg.SampleRate = c.Tracing.SampleRate
	return cfg
}

func unset(env string) bool {
	return os.Getenv(env) == ""
}

func setIfUnset(dst *string, value, env string) {
	if value != "" && unset(env) {
		*dst = value
	}
}
