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

package tracing

import "time"

// Config holds tracing configuration for the CLI.
type Config struct {
	// ServiceName identifies this process in traces.
	ServiceName string

	// ServiceVersion is the application version.
	ServiceVersion string

	// Exporter selects where spans go. An empty Type disables export.
	Exporter ExporterConfig

	// BatchTimeout is how often batched spans are flushed (default: 5s).
	BatchTimeout time.Duration

	// SampleRate is the fraction of new traces kept. Zero keeps all.
	SampleRate float64
}

// ExporterConfig defines a span export destination.
type ExporterConfig struct {
	// Type is the exporter type: "console", "otlp", "otlp-http" or "none".
	Type string

	// Endpoint is the OTLP receiver address.
	Endpoint string

	// Headers are additional request headers, usually for authentication.
	Headers map[string]string

	// TLS configures secure connections to the receiver.
	TLS TLSConfig
}

// TLSConfig configures TLS for exporters.
type TLSConfig struct {
	// Enabled activates TLS.
	Enabled bool

	// VerifyCertificate controls certificate validation.
	VerifyCertificate bool

	// CACertPath is the path to the CA certificate.
	CACertPath string
}

// DefaultConfig returns configuration with tracing export disabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "consul-operator",
		ServiceVersion: "dev",
		Exporter:       ExporterConfig{Type: "none"},
		BatchTimeout:   5 * time.Second,
	}
}
