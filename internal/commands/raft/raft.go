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

// Package raft implements the `raft` command group.
package raft

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/completion"
	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/operator"
)

// NewCommand creates the raft command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raft",
		Short: "Inspect and change the Raft peer set",
		Long: `Inspect and change the Raft peer set of the server cluster.

Commands:
  list-peers        Show the current Raft configuration
  remove-peer       Remove a stale server from the peer set
  transfer-leader   Hand leadership to another voter`,
	}

	cmd.AddCommand(newListPeersCommand())
	cmd.AddCommand(newRemovePeerCommand())
	cmd.AddCommand(newTransferLeaderCommand())

	return cmd
}

func newListPeersCommand() *cobra.Command {
	var stale bool

	cmd := &cobra.Command{
		Use:   "list-peers",
		Short: "Show the current Raft configuration",
		Example: `  consul-operator raft list-peers
  consul-operator raft list-peers --stale --jq '.Servers[] | select(.Leader) | .Node'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				conf, _, err := s.Operator.RaftGetConfiguration(ctx, &consul.QueryOptions{AllowStale: stale})
				if err != nil {
					return shared.NewRequestError("failed to read Raft configuration", err)
				}
				return shared.Render(cmd, conf, func(w io.Writer) error {
					return renderPeers(w, conf)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&stale, "stale", false, "Allow any server to answer, not just the leader")

	return cmd
}

func renderPeers(w io.Writer, conf *operator.RaftConfiguration) error {
	rows := make([][]string, 0, len(conf.Servers))
	for _, srv := range conf.Servers {
		state := "follower"
		if srv.Leader {
			state = shared.StatusOK.Render("leader")
		}
		rows = append(rows, []string{
			srv.Node,
			srv.ID,
			srv.Address,
			state,
			strconv.FormatBool(srv.Voter),
			srv.ProtocolVersion,
		})
	}

	_, err := io.WriteString(w, shared.RenderTable(
		[]string{"Node", "ID", "Address", "State", "Voter", "RaftProtocol"}, rows))
	return err
}

func newRemovePeerCommand() *cobra.Command {
	var address, id string

	cmd := &cobra.Command{
		Use:   "remove-peer (--address <ip:port> | --id <server-id>)",
		Short: "Remove a stale server from the peer set",
		Long: `Remove a server from the Raft peer set.

Use this only for servers that have failed and cannot be brought back; a
healthy server should leave gracefully instead. Exactly one of --address or
--id is required.`,
		Example: `  consul-operator raft remove-peer --address 10.0.0.7:8300
  consul-operator raft remove-peer --id e349749b-3303-3ddf-959c-b5885a0e1f6e --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "address " + address
			if id != "" {
				target = "ID " + id
			}

			if err := shared.Confirm("Remove Raft peer with "+target+"?",
				"The server loses its vote immediately."); err != nil {
				return err
			}

			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				var err error
				if id != "" {
					_, err = s.Operator.RaftRemovePeerByID(ctx, id, nil)
				} else {
					_, err = s.Operator.RaftRemovePeerByAddress(ctx, address, nil)
				}
				if err != nil {
					return shared.NewRequestError("failed to remove peer", err)
				}

				result := map[string]any{"removed": true, "address": address, "id": id}
				return shared.Render(cmd, result, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, shared.RenderOK("Removed peer with "+target))
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Raft address of the server (ip:port)")
	cmd.Flags().StringVar(&id, "id", "", "Raft ID of the server")
	cmd.MarkFlagsMutuallyExclusive("address", "id")
	cmd.MarkFlagsOneRequired("address", "id")
	_ = cmd.RegisterFlagCompletionFunc("id", completion.CompleteRaftPeerIDs)

	return cmd
}

func newTransferLeaderCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "transfer-leader",
		Short: "Hand leadership to another voter",
		Long: `Ask the current leader to step down in favour of another voter.

Without --id the leader picks the most up-to-date voter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := shared.Confirm("Transfer Raft leadership?",
				"Writes pause briefly while a new leader is elected."); err != nil {
				return err
			}

			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				resp, _, err := s.Operator.RaftLeaderTransfer(ctx, id, nil)
				if err != nil {
					return shared.NewRequestError("failed to transfer leadership", err)
				}
				if !resp.Success {
					return shared.NewRequestError("leadership transfer was not completed", nil)
				}
				return shared.Render(cmd, resp, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, shared.RenderOK("Leadership transferred"))
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Raft ID of the voter to promote")
	_ = cmd.RegisterFlagCompletionFunc("id", completion.CompleteRaftPeerIDs)

	return cmd
}
