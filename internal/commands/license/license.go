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

// Package license implements the `license` command (Enterprise).
package license

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/pkg/operator"
)

// NewCommand creates the license command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Inspect the Enterprise license",
	}

	cmd.AddCommand(newGetCommand())

	return cmd
}

func newGetCommand() *cobra.Command {
	var signed bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the license in effect",
		Long: `Show the license in effect on the servers.

With --signed the raw signed license blob is printed instead, suitable for
copying to another cluster.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
				if signed {
					blob, err := s.Operator.LicenseGetSigned(ctx, nil)
					if err != nil {
						return shared.NewRequestError("failed to read signed license", err)
					}
					return shared.Render(cmd, map[string]string{"signed": blob}, func(w io.Writer) error {
						_, err := fmt.Fprintln(w, blob)
						return err
					})
				}

				lic, err := s.Operator.LicenseGet(ctx, nil)
				if err != nil {
					return shared.NewRequestError("failed to read license", err)
				}
				return shared.Render(cmd, lic, func(w io.Writer) error {
					return renderLicense(w, lic, time.Now())
				})
			})
		},
	}

	cmd.Flags().BoolVar(&signed, "signed", false, "Print the signed license blob")

	return cmd
}

func renderLicense(w io.Writer, lic *operator.ConsulLicense, now time.Time) error {
	fmt.Fprintln(w, shared.RenderStatus(lic.Valid, validity(lic.Valid)))

	if l := lic.License; l != nil {
		rows := [][]string{
			{"License ID", l.LicenseID},
			{"Customer ID", l.CustomerID},
			{"Installation ID", l.InstallationID},
			{"Product", l.Product},
			{"Issued", formatTime(l.IssueTime)},
			{"Starts", formatTime(l.StartTime)},
			{"Expires", formatTime(l.ExpirationTime) + expiresIn(l.ExpirationTime, now)},
			{"Terminates", formatTime(l.TerminationTime)},
			{"Modules", strings.Join(l.Modules, ", ")},
			{"Features", strings.Join(l.Features, ", ")},
		}
		fmt.Fprint(w, shared.RenderTable([]string{"Field", "Value"}, rows))
	}

	for _, warning := range lic.Warnings {
		fmt.Fprintln(w, shared.RenderWarn(warning))
	}
	return nil
}

func validity(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func expiresIn(expiry, now time.Time) string {
	if expiry.IsZero() {
		return ""
	}
	days := int(expiry.Sub(now).Hours() / 24)
	if days < 0 {
		return shared.StatusError.Render(" (expired)")
	}
	return shared.Muted.Render(fmt.Sprintf(" (in %d days)", days))
}
