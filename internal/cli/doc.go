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

/*
Package cli provides the root command for consul-operator.

The root command owns the global flags and the exit-code contract; every
subcommand lives in its own internal/commands package and is attached in
main.

# Command Tree

	consul-operator
	├── raft        list-peers, remove-peer, transfer-leader
	├── keyring     install, list, remove, use
	├── area        create, list, get, update, delete, join, members
	├── license     get
	├── segment     list
	├── autopilot   get-config, set-config, health
	├── login       store a token in the OS keychain
	├── logout      remove it
	├── version     show version
	└── help        show help (--json for machine-readable output)

# Exit Codes

  - Exit 0: Success
  - Exit 1: Request failed
  - Exit 2: Invalid usage or configuration
  - Exit 3: Partial failure, such as an area join where some addresses failed

Use HandleExitError for consistent error handling:

	if err := rootCmd.Execute(); err != nil {
	    cli.HandleExitError(err)
	}
*/
package cli
