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

// Package autopilot implements the `autopilot` command group.
package autopilot

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/pkg/operator"
)

// NewCommand creates the autopilot command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autopilot",
		Short: "Configure autopilot and check server health",
		Long: `Configure autopilot and check server health.

Commands:
  get-config   Show the autopilot configuration
  set-config   Change autopilot settings
  health       Show the health of every server`,
	}

	cmd.AddCommand(newGetConfigCommand())
	cmd.AddCommand(newSetConfigCommand())
	cmd.AddCommand(newHealthCommand())

	return cmd
}

func newGetConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-config",
		Short: "Show the autopilot configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				conf, err := s.Operator.AutopilotGetConfiguration(ctx, nil)
				if err != nil {
					return shared.NewRequestError("failed to read autopilot configuration", err)
				}
				return shared.Render(cmd, conf, func(w io.Writer) error {
					return renderConfig(w, conf)
				})
			})
		},
	}
}

func renderConfig(w io.Writer, conf *operator.AutopilotConfiguration) error {
	rows := [][]string{
		{"CleanupDeadServers", strconv.FormatBool(conf.CleanupDeadServers)},
		{"LastContactThreshold", conf.LastContactThreshold.Duration().String()},
		{"MaxTrailingLogs", strconv.FormatUint(conf.MaxTrailingLogs, 10)},
		{"MinQuorum", strconv.FormatUint(uint64(conf.MinQuorum), 10)},
		{"ServerStabilizationTime", conf.ServerStabilizationTime.Duration().String()},
		{"RedundancyZoneTag", conf.RedundancyZoneTag},
		{"DisableUpgradeMigration", strconv.FormatBool(conf.DisableUpgradeMigration)},
		{"UpgradeVersionTag", conf.UpgradeVersionTag},
	}
	_, err := io.WriteString(w, shared.RenderTable([]string{"Setting", "Value"}, rows))
	return err
}

// configFlags holds set-config values. Only flags the user changed are
// applied on top of the current configuration.
type configFlags struct {
	cleanupDeadServers      bool
	lastContactThreshold    time.Duration
	maxTrailingLogs         uint64
	minQuorum               uint
	serverStabilizationTime time.Duration
	redundancyZoneTag       string
	disableUpgradeMigration bool
	upgradeVersionTag       string
	cas                     bool
}

func (f *configFlags) apply(cmd *cobra.Command, conf *operator.AutopilotConfiguration) int {
	changed := 0
	set := func(name string, fn func()) {
		if cmd.Flags().Changed(name) {
			fn()
			changed++
		}
	}

	set("cleanup-dead-servers", func() { conf.CleanupDeadServers = f.cleanupDeadServers })
	set("last-contact-threshold", func() { conf.LastContactThreshold = operator.NewDuration(f.lastContactThreshold) })
	set("max-trailing-logs", func() { conf.MaxTrailingLogs = f.maxTrailingLogs })
	set("min-quorum", func() { conf.MinQuorum = f.minQuorum })
	set("server-stabilization-time", func() { conf.ServerStabilizationTime = operator.NewDuration(f.serverStabilizationTime) })
	set("redundancy-zone-tag", func() { conf.RedundancyZoneTag = f.redundancyZoneTag })
	set("disable-upgrade-migration", func() { conf.DisableUpgradeMigration = f.disableUpgradeMigration })
	set("upgrade-version-tag", func() { conf.UpgradeVersionTag = f.upgradeVersionTag })

	return changed
}

func newSetConfigCommand() *cobra.Command {
	var f configFlags

	cmd := &cobra.Command{
		Use:   "set-config",
		Short: "Change autopilot settings",
		Long: `Change autopilot settings. The current configuration is read first and only
the flags given are changed.

With --cas the write is a check-and-set against the configuration that was
read, and fails if another operator changed it in between.`,
		Example: `  consul-operator autopilot set-config --cleanup-dead-servers=false
  consul-operator autopilot set-config --last-contact-threshold 500ms --cas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				conf, err := s.Operator.AutopilotGetConfiguration(ctx, nil)
				if err != nil {
					return shared.NewRequestError("failed to read autopilot configuration", err)
				}

				if f.apply(cmd, conf) == 0 {
					return shared.NewUsageError("no settings given", nil)
				}

				if f.cas {
					applied, err := s.Operator.AutopilotCASConfiguration(ctx, conf, nil)
					if err != nil {
						return shared.NewRequestError("failed to update autopilot configuration", err)
					}
					if !applied {
						return shared.NewRequestError(fmt.Sprintf(
							"configuration changed since index %d; re-run to retry", conf.ModifyIndex), nil)
					}
				} else if _, err := s.Operator.AutopilotSetConfiguration(ctx, conf, nil); err != nil {
					return shared.NewRequestError("failed to update autopilot configuration", err)
				}

				return shared.Render(cmd, conf, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, shared.RenderOK("Autopilot configuration updated"))
					return err
				})
			})
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&f.cleanupDeadServers, "cleanup-dead-servers", false, "Remove failed servers once a replacement joins")
	fs.DurationVar(&f.lastContactThreshold, "last-contact-threshold", 0, "Leader contact age before a server is unhealthy")
	fs.Uint64Var(&f.maxTrailingLogs, "max-trailing-logs", 0, "Log entries a server may lag before it is unhealthy")
	fs.UintVar(&f.minQuorum, "min-quorum", 0, "Minimum servers before dead servers are cleaned up")
	fs.DurationVar(&f.serverStabilizationTime, "server-stabilization-time", 0, "Time a new server must be healthy before it votes")
	fs.StringVar(&f.redundancyZoneTag, "redundancy-zone-tag", "", "Node meta key for redundancy zones (Enterprise)")
	fs.BoolVar(&f.disableUpgradeMigration, "disable-upgrade-migration", false, "Disable automated upgrade migration (Enterprise)")
	fs.StringVar(&f.upgradeVersionTag, "upgrade-version-tag", "", "Node meta key holding the upgrade version (Enterprise)")
	fs.BoolVar(&f.cas, "cas", false, "Fail if the configuration changed since it was read")

	return cmd
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the health of every server",
		Long: `Show autopilot's view of server health. An unhealthy cluster is reported,
not treated as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				reply, err := s.Operator.AutopilotServerHealth(ctx, nil)
				if err != nil {
					return shared.NewRequestError("failed to read server health", err)
				}
				return shared.Render(cmd, reply, func(w io.Writer) error {
					return renderHealth(w, reply)
				})
			})
		},
	}
}

func renderHealth(w io.Writer, reply *operator.OperatorHealthReply) error {
	summary := fmt.Sprintf("Healthy: %t, failure tolerance: %d", reply.Healthy, reply.FailureTolerance)
	if reply.Healthy {
		fmt.Fprintln(w, shared.RenderOK(summary))
	} else {
		fmt.Fprintln(w, shared.RenderError(summary))
	}

	rows := make([][]string, 0, len(reply.Servers))
	for _, srv := range reply.Servers {
		role := "follower"
		if srv.Leader {
			role = "leader"
		}
		if !srv.Voter {
			role = "non-voter"
		}
		rows = append(rows, []string{
			srv.Name,
			srv.Address,
			role,
			shared.RenderStatus(srv.Healthy, strconv.FormatBool(srv.Healthy)),
			srv.SerfStatus,
			srv.LastContact.Duration().String(),
			strconv.FormatUint(srv.LastIndex, 10),
			srv.Version,
		})
	}
	_, err := io.WriteString(w, shared.RenderTable(
		[]string{"Name", "Address", "Role", "Healthy", "Serf", "LastContact", "LastIndex", "Version"}, rows))
	return err
}
