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

// Package login implements `login` and `logout`, which keep an ACL token in
// the OS keychain keyed by agent address.
package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/internal/config"
	"github.com/tombee/consul-operator/internal/log"
	"github.com/tombee/consul-operator/pkg/consul"
)

// promptToken asks for a token with hidden input. Replaced in tests.
var promptToken = func() (string, error) {
	var token string
	err := huh.NewInput().
		Title("ACL token").
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Run()
	return token, err
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an ACL token in the OS keychain",
		Long: `Store an ACL token in the OS keychain for the resolved agent address.

Later commands use the stored token when no token is given by flag,
environment or config file. The token is read from --token, from standard
input when it is not a terminal, or from a hidden prompt.

The token is checked with a Raft configuration read unless --no-verify is
given, so it needs operator:read.`,
		Example: `  consul-operator login
  echo "$TOKEN" | consul-operator login --http-addr consul.example.com:8501`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := shared.ResolveConfig()
			if err != nil {
				return err
			}

			token, err := readToken(cmd)
			if err != nil {
				return err
			}

			if !noVerify {
				if err := verify(cmd, token); err != nil {
					return err
				}
			}

			if err := config.SaveToken(cfg.Address, token); err != nil {
				return shared.NewRequestError("failed to store token", err)
			}

			result := map[string]string{"address": cfg.Address, "token": log.SanitizeToken(token)}
			return shared.Render(cmd, result, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, shared.RenderOK("Stored token for "+cfg.Address))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Store the token without checking it against the agent")

	return cmd
}

func readToken(cmd *cobra.Command) (string, error) {
	if token := shared.Flags().Token; token != "" {
		return token, nil
	}

	var token string
	if shared.IsNonInteractive() {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", shared.NewUsageError("failed to read token from stdin", err)
		}
		token = line
	} else {
		t, err := promptToken()
		if err != nil {
			return "", shared.NewUsageError("aborted", err)
		}
		token = t
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", shared.NewUsageError("no token given", nil)
	}
	return token, nil
}

func verify(cmd *cobra.Command, token string) error {
	return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
		if _, _, err := s.Operator.RaftGetConfiguration(ctx, &consul.QueryOptions{AllowStale: true}); err != nil {
			return shared.NewRequestError("token check failed", err)
		}
		return nil
	}, shared.WithToken(token))
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored ACL token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := shared.ResolveConfig()
			if err != nil {
				return err
			}

			if err := config.DeleteToken(cfg.Address); err != nil {
				if errors.Is(err, config.ErrTokenNotFound) {
					return shared.NewUsageError("not logged in to "+cfg.Address, nil)
				}
				return shared.NewRequestError("failed to remove token", err)
			}

			return shared.Render(cmd, map[string]string{"address": cfg.Address}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, shared.RenderOK("Removed token for "+cfg.Address))
				return err
			})
		},
	}
}
