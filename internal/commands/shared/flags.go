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

import "github.com/spf13/pflag"

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	HTTPAddr     string
	Token        string
	Datacenter   string
	Config       string
	JSON         bool
	JQ           string
	Yes          bool
	Verbose      bool
	Trace        string
	OTLPEndpoint string
	MetricsFile  string
}

// Global flag values - set by root command
var (
	flags GlobalFlags

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterFlags binds the global flags to fs, resetting them to defaults.
// Called by the root command.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flags.HTTPAddr, "http-addr", "", "Consul agent address (overrides CONSUL_HTTP_ADDR)")
	fs.StringVar(&flags.Token, "token", "", "ACL token (overrides CONSUL_HTTP_TOKEN)")
	fs.StringVar(&flags.Datacenter, "datacenter", "", "Datacenter to query (default: the agent's)")
	fs.StringVar(&flags.Config, "config", "", "Path to config file (default: ~/.config/consul-operator/config.yaml)")
	fs.BoolVar(&flags.JSON, "json", false, "Output in JSON format")
	fs.StringVar(&flags.JQ, "jq", "", "Filter JSON output with a jq expression")
	fs.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	fs.StringVar(&flags.Trace, "trace", "", "Export request spans (console, otlp, otlp-http)")
	fs.StringVar(&flags.OTLPEndpoint, "otlp-endpoint", "", "OTLP collector endpoint for --trace otlp/otlp-http")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "Write request metrics in Prometheus text format to this file")
}

// Flags returns the current global flag values.
func Flags() GlobalFlags {
	return flags
}

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// GetJSON reports whether machine-readable output was requested.
func GetJSON() bool {
	return flags.JSON || flags.JQ != ""
}
