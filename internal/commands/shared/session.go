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

package shared

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/config"
	"github.com/tombee/consul-operator/internal/log"
	"github.com/tombee/consul-operator/internal/tracing"
	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/operator"
)

// shutdownTimeout bounds span export when a command finishes.
const shutdownTimeout = 5 * time.Second

// Session is everything a command needs to talk to the agent.
type Session struct {
	Operator *operator.Operator
	Logger   *slog.Logger

	// Address is the resolved agent address, used as the keychain key.
	Address string

	provider *tracing.Provider
	registry *prometheus.Registry
}

// CommandContext returns the command's context carrying a correlation ID.
func CommandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = tracing.EnsureContext(ctx)
	return ctx
}

// ResolveConfig layers defaults, the config file, the environment and the
// global flags into a client configuration.
func ResolveConfig() (consul.Config, *config.Config, error) {
	f := Flags()

	if wd, err := os.Getwd(); err == nil {
		if err := config.LoadDotEnv(wd); err != nil {
			return consul.Config{}, nil, NewUsageError("failed to load .env", err)
		}
	}

	fileCfg, err := config.Load(f.Config)
	if err != nil {
		return consul.Config{}, nil, NewUsageError("failed to load configuration", err)
	}

	cfg := consul.DefaultConfig()
	fileCfg.Apply(&cfg)

	if f.HTTPAddr != "" {
		cfg.Address = f.HTTPAddr
	}
	if f.Token != "" {
		cfg.Token = f.Token
		cfg.TokenFile = ""
	}
	if f.Datacenter != "" {
		cfg.Datacenter = f.Datacenter
	}

	return cfg, fileCfg, nil
}

// SessionOption adjusts a session's client configuration.
type SessionOption func(*consul.Config)

// WithToken makes the session use token regardless of other sources.
func WithToken(token string) SessionOption {
	return func(cfg *consul.Config) {
		cfg.Token = token
		cfg.TokenFile = ""
	}
}

// NewSession resolves configuration and builds the client stack. Callers
// must Close the session to flush spans and write metrics.
func NewSession(cmd *cobra.Command, opts ...SessionOption) (*Session, error) {
	f := Flags()

	cfg, fileCfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logCfg := fileCfg.LogConfig()
	if f.Verbose {
		logCfg.Level = "debug"
	}
	logger := log.New(logCfg)

	if cfg.Token == "" && cfg.TokenFile == "" {
		token, err := config.LoadToken(cfg.Address)
		switch {
		case err == nil:
			cfg.Token = token
		case !errors.Is(err, config.ErrTokenNotFound):
			logger.Debug("keychain lookup failed", log.Error(err))
		}
	}

	v, _, _ := GetVersion()
	traceCfg := fileCfg.TracingConfig(v)
	if f.Trace != "" {
		traceCfg.Exporter.Type = f.Trace
	}
	if f.OTLPEndpoint != "" {
		traceCfg.Exporter.Endpoint = f.OTLPEndpoint
	}
	provider, err := tracing.NewProvider(CommandContext(cmd), traceCfg)
	if err != nil {
		return nil, NewUsageError("failed to configure tracing", err)
	}

	registry := prometheus.NewRegistry()

	cfg.Logger = logger
	cfg.HTTP.UserAgent = "consul-operator/" + v
	cfg.Metrics = tracing.NewRequestMetrics(registry)
	cfg.TracerProvider = provider.TracerProvider()

	client, err := consul.NewClient(cfg)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, NewUsageError("invalid client configuration", err)
	}

	logger.Debug("client configured",
		"address", cfg.Address,
		log.DatacenterKey, cfg.Datacenter,
		"token", log.SanitizeToken(cfg.Token))

	return &Session{
		Operator: operator.New(client),
		Logger:   logger,
		Address:  cfg.Address,
		provider: provider,
		registry: registry,
	}, nil
}

// Close flushes pending spans and writes the metrics file if requested.
func (s *Session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.provider.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if path := Flags().MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.Logger.Warn("session shutdown incomplete", log.Error(err))
		return err
	}
	return nil
}

// WithSession runs fn with a fresh session and closes it afterwards.
func WithSession(cmd *cobra.Command, fn func(ctx context.Context, s *Session) error, opts ...SessionOption) error {
	s, err := NewSession(cmd, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(CommandContext(cmd), s)
}
