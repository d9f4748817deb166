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

package completion

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/pkg/consul"
)

// lookupTimeout bounds live lookups so a slow agent never stalls the shell.
const lookupTimeout = 2 * time.Second

// SafeCompletionWrapper wraps a completion function with panic recovery.
// Returns empty completion list on panic or error.
func SafeCompletionWrapper(fn func() ([]string, cobra.ShellCompDirective)) (results []string, directive cobra.ShellCompDirective) {
	results = []string{}
	directive = cobra.ShellCompDirectiveNoFileComp

	defer func() {
		if r := recover(); r != nil {
			results = []string{}
			directive = cobra.ShellCompDirectiveNoFileComp
		}
	}()

	results, directive = fn()
	if results == nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return results, directive
}

// CompleteTraceExporters completes the --trace flag.
func CompleteTraceExporters(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		return []string{
			"console\tPrint spans to stderr",
			"otlp\tOTLP over gRPC",
			"otlp-http\tOTLP over HTTP",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteAreaIDs completes the first argument with network area IDs,
// described by their peer datacenter.
func CompleteAreaIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		var ids []string
		_ = withLookup(cmd, func(ctx context.Context, s *shared.Session) error {
			areas, _, err := s.Operator.AreaList(ctx, &consul.QueryOptions{AllowStale: true})
			for _, a := range areas {
				ids = append(ids, a.ID+"\tpeer "+a.PeerDatacenter)
			}
			return err
		})
		return ids, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteRaftPeerIDs completes --id flags with Raft server IDs.
func CompleteRaftPeerIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		var ids []string
		_ = withLookup(cmd, func(ctx context.Context, s *shared.Session) error {
			conf, _, err := s.Operator.RaftGetConfiguration(ctx, &consul.QueryOptions{AllowStale: true})
			if conf != nil {
				for _, srv := range conf.Servers {
					ids = append(ids, srv.ID+"\t"+srv.Node)
				}
			}
			return err
		})
		return ids, cobra.ShellCompDirectiveNoFileComp
	})
}

func withLookup(cmd *cobra.Command, fn func(ctx context.Context, s *shared.Session) error) error {
	return shared.WithSession(cmd, func(ctx context.Context, s *shared.Session) error {
		ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
		defer cancel()
		return fn(ctx, s)
	})
}
