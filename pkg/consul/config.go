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

package consul

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tombee/consul-operator/pkg/httpclient"
	"go.opentelemetry.io/otel/trace"
)

// Environment variables understood by DefaultConfig. They match the names
// the consul CLI uses.
const (
	HTTPAddrEnvName          = "CONSUL_HTTP_ADDR"
	HTTPTokenEnvName         = "CONSUL_HTTP_TOKEN"
	HTTPTokenFileEnvName     = "CONSUL_HTTP_TOKEN_FILE"
	HTTPSSLEnvName           = "CONSUL_HTTP_SSL"
	HTTPSSLVerifyEnvName     = "CONSUL_HTTP_SSL_VERIFY"
	HTTPCAFileEnvName        = "CONSUL_CACERT"
	HTTPCAPathEnvName        = "CONSUL_CAPATH"
	HTTPClientCertEnvName    = "CONSUL_CLIENT_CERT"
	HTTPClientKeyEnvName     = "CONSUL_CLIENT_KEY"
	HTTPTLSServerNameEnvName = "CONSUL_TLS_SERVER_NAME"
	HTTPNamespaceEnvName     = "CONSUL_NAMESPACE"
	HTTPPartitionEnvName     = "CONSUL_PARTITION"
)

const (
	defaultAddress = "127.0.0.1:8500"
	defaultScheme  = "http"
	unixPrefix     = "unix://"
)

// MetricsRecorder receives one observation per executed request. code is
// 0 when no response was received. *tracing.RequestMetrics implements it.
type MetricsRecorder interface {
	Observe(method, path string, code int, d time.Duration)
}

// Config configures a Client.
type Config struct {
	// Address is the agent address as host:port, or unix:///path/to/socket.
	// A scheme prefix ("https://") overrides Scheme.
	Address string

	// Scheme is "http" or "https".
	Scheme string

	// PathPrefix is prepended to every request path, for agents served
	// behind a reverse proxy.
	PathPrefix string

	// Datacenter is the default datacenter for requests that do not set one.
	Datacenter string

	// Token is the default ACL token.
	Token string

	// TokenFile is read when Token is empty.
	TokenFile string

	// Namespace and Partition are Enterprise defaults applied to every request.
	Namespace string
	Partition string

	// WaitTime bounds blocking queries that do not set their own.
	WaitTime time.Duration

	// TLS is used when Scheme is "https".
	TLS httpclient.TLSConfig

	// HTTP configures the transport stack. The zero value means
	// httpclient.DefaultConfig().
	HTTP httpclient.Config

	// HTTPClient replaces the transport stack entirely.
	HTTPClient *http.Client

	// Logger receives per-request debug lines. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics, when set, records request counts and latencies.
	Metrics MetricsRecorder

	// TracerProvider, when set, produces a client span per request.
	// Defaults to the global OpenTelemetry provider.
	TracerProvider trace.TracerProvider
}

// DefaultConfig returns the default configuration overlaid with the
// standard CONSUL_* environment variables. Malformed boolean variables are
// logged and ignored.
func DefaultConfig() Config {
	cfg := Config{
		Address: defaultAddress,
		Scheme:  defaultScheme,
		HTTP:    httpclient.DefaultConfig(),
	}

	if addr := os.Getenv(HTTPAddrEnvName); addr != "" {
		cfg.Address = addr
	}
	if token := os.Getenv(HTTPTokenEnvName); token != "" {
		cfg.Token = token
	}
	if tokenFile := os.Getenv(HTTPTokenFileEnvName); tokenFile != "" {
		cfg.TokenFile = tokenFile
	}

	if ssl := os.Getenv(HTTPSSLEnvName); ssl != "" {
		enabled, err := strconv.ParseBool(ssl)
		if err != nil {
			slog.Warn("ignoring malformed environment variable", "name", HTTPSSLEnvName, "error", err)
		} else if enabled {
			cfg.Scheme = "https"
		}
	}
	if verify := os.Getenv(HTTPSSLVerifyEnvName); verify != "" {
		doVerify, err := strconv.ParseBool(verify)
		if err != nil {
			slog.Warn("ignoring malformed environment variable", "name", HTTPSSLVerifyEnvName, "error", err)
		} else if !doVerify {
			cfg.TLS.InsecureSkipVerify = true
		}
	}

	cfg.TLS.CAFile = os.Getenv(HTTPCAFileEnvName)
	cfg.TLS.CAPath = os.Getenv(HTTPCAPathEnvName)
	cfg.TLS.CertFile = os.Getenv(HTTPClientCertEnvName)
	cfg.TLS.KeyFile = os.Getenv(HTTPClientKeyEnvName)
	cfg.TLS.Address = os.Getenv(HTTPTLSServerNameEnvName)

	cfg.Namespace = os.Getenv(HTTPNamespaceEnvName)
	cfg.Partition = os.Getenv(HTTPPartitionEnvName)

	return cfg
}

// splitAddress separates an optional scheme prefix from an address. Unix
// socket addresses are returned with socket set and host empty.
func splitAddress(address, scheme string) (host, outScheme, socket string) {
	switch {
	case strings.HasPrefix(address, unixPrefix):
		return "", "http", strings.TrimPrefix(address, unixPrefix)
	case strings.HasPrefix(address, "https://"):
		return strings.TrimPrefix(address, "https://"), "https", ""
	case strings.HasPrefix(address, "http://"):
		return strings.TrimPrefix(address, "http://"), "http", ""
	}
	return address, scheme, ""
}
