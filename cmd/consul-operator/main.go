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

package main

import (
	"github.com/tombee/consul-operator/internal/cli"
	"github.com/tombee/consul-operator/internal/commands/area"
	"github.com/tombee/consul-operator/internal/commands/autopilot"
	"github.com/tombee/consul-operator/internal/commands/completion"
	"github.com/tombee/consul-operator/internal/commands/keyring"
	"github.com/tombee/consul-operator/internal/commands/license"
	"github.com/tombee/consul-operator/internal/commands/login"
	"github.com/tombee/consul-operator/internal/commands/raft"
	"github.com/tombee/consul-operator/internal/commands/segment"
	versioncmd "github.com/tombee/consul-operator/internal/commands/version"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Set version information from build-time ldflags
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()

	// Cluster commands
	rootCmd.AddCommand(raft.NewCommand())
	rootCmd.AddCommand(keyring.NewCommand())
	rootCmd.AddCommand(autopilot.NewCommand())

	// Enterprise commands
	rootCmd.AddCommand(area.NewCommand())
	rootCmd.AddCommand(license.NewCommand())
	rootCmd.AddCommand(segment.NewCommand())

	// Credentials
	rootCmd.AddCommand(login.NewLoginCommand())
	rootCmd.AddCommand(login.NewLogoutCommand())

	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	_ = rootCmd.RegisterFlagCompletionFunc("trace", completion.CompleteTraceExporters)

	// Custom help command with JSON support
	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))

	if err := rootCmd.Execute(); err != nil {
		cli.HandleExitError(err)
	}
}
