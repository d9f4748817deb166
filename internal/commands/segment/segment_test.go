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

package segment_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/consul-operator/internal/commands/segment"
	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/internal/testing/clitest"
)

func TestList(t *testing.T) {
	clitest.Isolate(t)

	t.Run("default segment", func(t *testing.T) {
		agent := clitest.NewAgent(t)
		agent.Handle(http.MethodGet, "/v1/operator/segment", http.StatusOK, `["", "alpha", "beta"]`)

		res := clitest.Run(t, agent, segment.NewCommand(), "segment", "list", "--stale")

		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "<default>\nalpha\nbeta\n")
		assert.Equal(t, "stale=", agent.Requests()[0].Query)
	})

	t.Run("json keeps the empty name", func(t *testing.T) {
		agent := clitest.NewAgent(t)
		agent.Handle(http.MethodGet, "/v1/operator/segment", http.StatusOK, `["", "alpha"]`)

		res := clitest.Run(t, agent, segment.NewCommand(), "segment", "list", "--json")

		require.NoError(t, res.Err)
		assert.JSONEq(t, `["", "alpha"]`, res.Stdout)
	})

	t.Run("community edition", func(t *testing.T) {
		agent := clitest.NewAgent(t)

		res := clitest.Run(t, agent, segment.NewCommand(), "segment", "list")

		assert.Equal(t, shared.ExitRequestFailed, res.ExitCode())
	})
}
