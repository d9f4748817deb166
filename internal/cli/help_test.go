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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/consul-operator/internal/commands/shared"
)

func newTestRoot() (*cobra.Command, *bytes.Buffer) {
	root := NewRootCommand()

	raft := &cobra.Command{Use: "raft", Short: "Inspect and change the Raft peer set"}
	listPeers := &cobra.Command{
		Use:     "list-peers",
		Short:   "Show the current Raft configuration",
		Example: "  consul-operator raft list-peers",
		RunE:    func(cmd *cobra.Command, args []string) error { return nil },
	}
	listPeers.Flags().Bool("stale", false, "Allow any server to answer")
	raft.AddCommand(listPeers)
	root.AddCommand(raft)
	root.AddCommand(&cobra.Command{Use: "hidden", Hidden: true, Run: func(*cobra.Command, []string) {}})
	root.SetHelpCommand(NewHelpCommand(root))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestHelpJSON(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		root, out := newTestRoot()
		root.SetArgs([]string{"help", "--json"})

		require.NoError(t, root.Execute())

		var resp HelpResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "1.0", resp.Version)

		var names []string
		for _, c := range resp.Commands {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "raft")
		assert.NotContains(t, names, "hidden")

		var globals []string
		for _, f := range resp.GlobalFlags {
			globals = append(globals, f.Name)
		}
		assert.Contains(t, globals, "http-addr")
		assert.Contains(t, globals, "jq")
	})

	t.Run("subcommand", func(t *testing.T) {
		root, out := newTestRoot()
		root.SetArgs([]string{"help", "raft", "list-peers", "--json"})

		require.NoError(t, root.Execute())

		var resp HelpResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		require.NotNil(t, resp.Target)
		assert.Equal(t, "help consul-operator raft list-peers", resp.JSONResponse.Command)
		assert.Equal(t, "list-peers", resp.Target.Name)
		assert.Equal(t, "  consul-operator raft list-peers", resp.Target.Examples)
		require.Len(t, resp.Target.Flags, 1)
		assert.Equal(t, "stale", resp.Target.Flags[0].Name)
		assert.Equal(t, "false", resp.Target.Flags[0].Default)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &raw))
		assert.Equal(t, "help consul-operator raft list-peers", raw["command"])
		assert.Contains(t, raw, "target")
	})

	t.Run("group lists subcommands", func(t *testing.T) {
		root, out := newTestRoot()
		root.SetArgs([]string{"help", "raft", "--json"})

		require.NoError(t, root.Execute())

		var resp HelpResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		require.NotNil(t, resp.Target)
		assert.Equal(t, []string{"list-peers"}, resp.Target.Subcommands)
	})

	t.Run("unknown command", func(t *testing.T) {
		root, _ := newTestRoot()
		root.SetArgs([]string{"help", "nope", "--json"})

		err := root.Execute()
		assert.Equal(t, shared.ExitUsage, shared.ExitCode(err))
	})

	t.Run("plain", func(t *testing.T) {
		root, out := newTestRoot()
		root.SetArgs([]string{"help", "raft"})

		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Inspect and change the Raft peer set")
	})
}

func TestInvalidJQIsUsageError(t *testing.T) {
	root, _ := newTestRoot()
	root.SetArgs([]string{"raft", "list-peers", "--jq", ".Servers["})

	err := root.Execute()
	assert.Equal(t, shared.ExitUsage, shared.ExitCode(err))
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	root, _ := newTestRoot()
	root.SetArgs([]string{"raft", "list-peers", "--bogus"})

	err := root.Execute()
	assert.Equal(t, shared.ExitUsage, shared.ExitCode(err))
}
