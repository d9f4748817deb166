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

// Package keyring implements the `keyring` command group for gossip
// encryption keys.
package keyring

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/operator"
)

// NewCommand creates the keyring command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage gossip encryption keys",
		Long: `Manage the gossip encryption keyring across every pool.

A key rotation is: install the new key, use it as primary, then remove the
old key once every node reports the new one.

Commands:
  install   Distribute a new key to every node
  list      Show installed keys per pool
  use       Make an installed key the primary
  remove    Remove a key from every node`,
	}

	var relayFactor uint8
	var localOnly bool
	cmd.PersistentFlags().Uint8Var(&relayFactor, "relay-factor", 0, "Number of nodes that relay each response (0-5)")
	cmd.PersistentFlags().BoolVar(&localOnly, "local-only", false, "Query only the local datacenter's pools (list only)")

	cmd.AddCommand(newWriteCommand("install", "Distribute a new key to every node", "Installed", false,
		func(ctx context.Context, op *operator.Operator, key string, w *consul.WriteOptions) error {
			_, err := op.KeyringInstall(ctx, key, w)
			return err
		}, &relayFactor))
	cmd.AddCommand(newWriteCommand("use", "Make an installed key the primary", "Now using", false,
		func(ctx context.Context, op *operator.Operator, key string, w *consul.WriteOptions) error {
			_, err := op.KeyringUse(ctx, key, w)
			return err
		}, &relayFactor))
	cmd.AddCommand(newWriteCommand("remove", "Remove a key from every node", "Removed", true,
		func(ctx context.Context, op *operator.Operator, key string, w *consul.WriteOptions) error {
			_, err := op.KeyringRemove(ctx, key, w)
			return err
		}, &relayFactor))
	cmd.AddCommand(newListCommand(&relayFactor, &localOnly))

	return cmd
}

type keyOp func(ctx context.Context, op *operator.Operator, key string, w *consul.WriteOptions) error

func newWriteCommand(name, short, verb string, destructive bool, fn keyOp, relayFactor *uint8) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <key>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkRelayFactor(*relayFactor); err != nil {
				return err
			}
			if destructive {
				if err := shared.Confirm("Remove gossip key "+abbreviate(key)+"?",
					"Nodes still using it will stop gossiping."); err != nil {
					return err
				}
			}

			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				w := &consul.WriteOptions{RelayFactor: *relayFactor}
				if err := fn(ctx, s.Operator, key, w); err != nil {
					return shared.NewRequestError("keyring "+name+" failed", err)
				}

				result := map[string]any{"operation": name, "key": key, "success": true}
				return shared.Render(cmd, result, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, shared.RenderOK(verb+" key "+abbreviate(key)))
					return err
				})
			})
		},
	}
}

func newListCommand(relayFactor *uint8, localOnly *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show installed keys per pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkRelayFactor(*relayFactor); err != nil {
				return err
			}
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				q := &consul.QueryOptions{RelayFactor: *relayFactor, LocalOnly: *localOnly}
				pools, _, err := s.Operator.KeyringList(ctx, q)
				if err != nil {
					return shared.NewRequestError("failed to list keys", err)
				}
				return shared.Render(cmd, pools, func(w io.Writer) error {
					return renderPools(w, pools)
				})
			})
		},
	}
}

func renderPools(w io.Writer, pools []*operator.KeyringResponse) error {
	for _, pool := range pools {
		fmt.Fprintln(w, shared.Header.Render(poolName(pool)))

		primary := make(map[string]bool, len(pool.PrimaryKeys))
		for k := range pool.PrimaryKeys {
			primary[k] = true
		}

		rows := make([][]string, 0, len(pool.Keys))
		for _, key := range sortedKeys(pool.Keys) {
			count := fmt.Sprintf("%d/%d", pool.Keys[key], pool.NumNodes)
			if pool.Keys[key] < pool.NumNodes {
				count = shared.StatusWarn.Render(count)
			}
			role := ""
			if primary[key] {
				role = "primary"
			}
			rows = append(rows, []string{key, count, role})
		}
		fmt.Fprint(w, shared.RenderTable([]string{"Key", "Nodes", "Role"}, rows))

		for _, node := range sortedKeys(pool.Messages) {
			fmt.Fprintln(w, shared.RenderWarn(node+": "+pool.Messages[node]))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func poolName(pool *operator.KeyringResponse) string {
	if pool.WAN {
		return "WAN"
	}
	name := pool.Datacenter + " (LAN)"
	if pool.Segment != "" {
		name += " segment " + pool.Segment
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkRelayFactor(n uint8) error {
	if n > 5 {
		return shared.NewUsageError(fmt.Sprintf("--relay-factor must be between 0 and 5, got %d", n), nil)
	}
	return nil
}

// abbreviate keeps key material out of terminal scrollback.
func abbreviate(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:4] + "..." + strings.TrimRight(key[len(key)-4:], "=")
}
