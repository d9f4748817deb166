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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for consul-operator
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consul-operator",
		Short: "Operate a Consul cluster's Raft, gossip, areas and autopilot",
		Long: `consul-operator drives the Consul operator HTTP API: Raft peer management,
gossip keyring rotation, network areas, Enterprise license and segment
inspection, and autopilot configuration and health.

The agent address, token and TLS settings come from flags, CONSUL_* environment
variables, a .env file or ~/.config/consul-operator/config.yaml, in that order
of precedence. Run 'consul-operator login' to keep a token in the OS keychain.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Pin one correlation ID for every request the command makes.
			cmd.SetContext(shared.CommandContext(cmd))
			return shared.ValidateOutputFlags()
		},
	}

	shared.RegisterFlags(cmd.PersistentFlags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return shared.NewUsageError("invalid flags", err)
	})

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
