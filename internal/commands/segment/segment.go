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

// Package segment implements the `segment` command (Enterprise).
package segment

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/pkg/consul"
)

// NewCommand creates the segment command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Inspect network segments (Enterprise)",
	}

	var stale bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the LAN segments",
		Long:  `List the LAN network segments. The default segment is shown as <default>.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				segments, _, err := s.Operator.SegmentList(ctx, &consul.QueryOptions{AllowStale: stale})
				if err != nil {
					return shared.NewRequestError("failed to list segments", err)
				}
				return shared.Render(cmd, segments, func(w io.Writer) error {
					for _, name := range segments {
						if name == "" {
							name = shared.Muted.Render("<default>")
						}
						fmt.Fprintln(w, name)
					}
					return nil
				})
			})
		},
	}
	list.Flags().BoolVar(&stale, "stale", false, "Allow any server to answer, not just the leader")

	cmd.AddCommand(list)

	return cmd
}
