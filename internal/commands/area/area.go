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

// Package area implements the `area` command group for Enterprise network
// areas.
package area

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/completion"
	"github.com/tombee/consul-operator/internal/commands/shared"
	operrors "github.com/tombee/consul-operator/pkg/errors"
	"github.com/tombee/consul-operator/pkg/operator"
)

// NewCommand creates the area command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Manage network areas (Enterprise)",
		Long: `Manage network areas, which link this datacenter's servers to a peer
datacenter without a shared WAN gossip pool.

Commands:
  create    Create an area with a peer datacenter
  list      List areas
  get       Show one area
  update    Change an area's join list or TLS setting
  delete    Delete an area
  join      Join servers in the peer datacenter
  members   Show the servers in an area`,
	}

	cmd.AddCommand(newCreateCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newDeleteCommand())
	cmd.AddCommand(newJoinCommand())
	cmd.AddCommand(newMembersCommand())

	return cmd
}

type areaFlags struct {
	peerDatacenter string
	retryJoin      []string
	useTLS         bool
}

func (f *areaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.peerDatacenter, "peer-datacenter", "", "Datacenter on the other side of the area")
	cmd.Flags().StringSliceVar(&f.retryJoin, "retry-join", nil, "Peer server address to join in the background (repeatable)")
	cmd.Flags().BoolVar(&f.useTLS, "use-tls", false, "Encrypt area traffic with the server certificates")
}

func (f *areaFlags) request() *operator.AreaRequest {
	return &operator.AreaRequest{
		PeerDatacenter: f.peerDatacenter,
		RetryJoin:      f.retryJoin,
		UseTLS:         f.useTLS,
	}
}

func newCreateCommand() *cobra.Command {
	var f areaFlags

	cmd := &cobra.Command{
		Use:     "create --peer-datacenter <dc>",
		Short:   "Create an area with a peer datacenter",
		Example: `  consul-operator area create --peer-datacenter dc2 --retry-join 10.1.0.10 --use-tls`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				id, _, err := s.Operator.AreaCreate(ctx, f.request(), nil)
				if err != nil {
					return shared.NewRequestError("failed to create area", err)
				}
				return renderID(cmd, "Created", id)
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("peer-datacenter")

	return cmd
}

func newUpdateCommand() *cobra.Command {
	var f areaFlags

	cmd := &cobra.Command{
		Use:   "update <area-id> --peer-datacenter <dc>",
		Short: "Change an area's join list or TLS setting",
		Long: `Replace an area's settings. The request replaces the stored area, so pass
every setting you want to keep.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteAreaIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				id, _, err := s.Operator.AreaUpdate(ctx, args[0], f.request(), nil)
				if err != nil {
					return shared.NewRequestError("failed to update area", err)
				}
				return renderID(cmd, "Updated", id)
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("peer-datacenter")

	return cmd
}

func renderID(cmd *cobra.Command, verb, id string) error {
	return shared.Render(cmd, map[string]string{"ID": id}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, shared.RenderOK(verb+" area "+id))
		return err
	})
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				areas, _, err := s.Operator.AreaList(ctx, nil)
				if err != nil {
					return shared.NewRequestError("failed to list areas", err)
				}
				return shared.Render(cmd, areas, func(w io.Writer) error {
					return renderAreas(w, areas)
				})
			})
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "get <area-id>",
		Short:             "Show one area",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteAreaIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				areas, _, err := s.Operator.AreaGet(ctx, args[0], nil)
				if err != nil {
					return shared.NewRequestError("failed to read area", err)
				}
				if len(areas) == 0 {
					return shared.NewRequestError("failed to read area",
						&operrors.NotFoundError{Resource: "area", ID: args[0]})
				}
				return shared.Render(cmd, areas, func(w io.Writer) error {
					return renderAreas(w, areas)
				})
			})
		},
	}
}

func renderAreas(w io.Writer, areas []*operator.Area) error {
	rows := make([][]string, 0, len(areas))
	for _, a := range areas {
		rows = append(rows, []string{
			a.ID,
			a.PeerDatacenter,
			strings.Join(a.RetryJoin, ","),
			strconv.FormatBool(a.UseTLS),
		})
	}
	_, err := io.WriteString(w, shared.RenderTable([]string{"ID", "PeerDatacenter", "RetryJoin", "UseTLS"}, rows))
	return err
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <area-id>",
		Short:             "Delete an area",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteAreaIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := shared.Confirm("Delete area "+id+"?",
				"Servers stop gossiping with the peer datacenter."); err != nil {
				return err
			}

			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				if _, err := s.Operator.AreaDelete(ctx, id, nil); err != nil {
					return shared.NewRequestError("failed to delete area", err)
				}
				return shared.Render(cmd, map[string]any{"ID": id, "deleted": true}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, shared.RenderOK("Deleted area "+id))
					return err
				})
			})
		},
	}
}

func newJoinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "join <area-id> <address>...",
		Short: "Join servers in the peer datacenter",
		Long: `Join this datacenter's servers to servers in the peer datacenter.

Every address is attempted independently. The command exits with status 3
if some addresses failed to join.`,
		Example:           `  consul-operator area join 8f246b77-f3e1-ff88-5b48-8ec93abf3e05 10.1.0.10 10.1.0.11:8302`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completion.CompleteAreaIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				results, _, err := s.Operator.AreaJoin(ctx, args[0], args[1:], nil)
				if err != nil {
					return shared.NewRequestError("failed to join area", err)
				}

				if err := shared.Render(cmd, results, func(w io.Writer) error {
					return renderJoin(w, results)
				}); err != nil {
					return err
				}

				if failed := countFailed(results); failed > 0 {
					return shared.NewPartialFailureError(
						fmt.Sprintf("%d of %d addresses failed to join", failed, len(results)), nil)
				}
				return nil
			})
		},
	}
}

func renderJoin(w io.Writer, results []*operator.AreaJoinResponse) error {
	for _, r := range results {
		line := shared.RenderOK(r.Address)
		if !r.Joined {
			line = shared.RenderError(r.Address + ": " + r.Error)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func countFailed(results []*operator.AreaJoinResponse) int {
	n := 0
	for _, r := range results {
		if !r.Joined {
			n++
		}
	}
	return n
}

func newMembersCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "members <area-id>",
		Short:             "Show the servers in an area",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteAreaIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				members, _, err := s.Operator.AreaMembers(ctx, args[0], nil)
				if err != nil {
					return shared.NewRequestError("failed to list area members", err)
				}
				return shared.Render(cmd, members, func(w io.Writer) error {
					return renderMembers(w, members)
				})
			})
		},
	}
}

func renderMembers(w io.Writer, members []*operator.SerfMember) error {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.Name,
			net.JoinHostPort(m.Addr.String(), strconv.Itoa(int(m.Port))),
			shared.RenderStatus(m.Status == "alive", m.Status),
			m.Datacenter,
			m.Build,
			m.RTT.String(),
		})
	}
	_, err := io.WriteString(w, shared.RenderTable([]string{"Name", "Address", "Status", "Datacenter", "Build", "RTT"}, rows))
	return err
}
