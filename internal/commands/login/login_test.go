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

package login

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/consul-operator/internal/commands/raft"
	"github.com/tombee/consul-operator/internal/commands/shared"
	"github.com/tombee/consul-operator/internal/config"
	"github.com/tombee/consul-operator/internal/testing/clitest"
)

const token = "b1gs3cr3-0000-4000-8000-000000000001"

func TestLogin(t *testing.T) {
	t.Run("stdin without verification", func(t *testing.T) {
		clitest.Isolate(t)
		agent := clitest.NewAgent(t)

		res := clitest.RunWithInput(t, agent, NewLoginCommand(), token+"\n", "login", "--no-verify")

		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "Stored token for "+agent.URL)
		assert.Empty(t, agent.Requests())

		stored, err := config.LoadToken(agent.URL)
		require.NoError(t, err)
		assert.Equal(t, token, stored)
	})

	t.Run("verified against the agent", func(t *testing.T) {
		clitest.Isolate(t)
		agent := clitest.NewAgent(t)
		agent.Handle(http.MethodGet, "/v1/operator/raft/configuration", http.StatusOK, `{"Servers": [], "Index": 1}`)

		res := clitest.RunWithInput(t, agent, NewLoginCommand(), "  "+token+"  \n", "login", "--json")

		require.NoError(t, res.Err)
		reqs := agent.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, token, reqs[0].Token)
		assert.Equal(t, "stale=", reqs[0].Query)
		assert.NotContains(t, res.Stdout, token)
	})

	t.Run("rejected token is not stored", func(t *testing.T) {
		clitest.Isolate(t)
		agent := clitest.NewAgent(t)
		agent.Handle(http.MethodGet, "/v1/operator/raft/configuration", http.StatusForbidden, "ACL not found")

		res := clitest.RunWithInput(t, agent, NewLoginCommand(), token, "login")

		assert.Equal(t, shared.ExitRequestFailed, res.ExitCode())
		_, err := config.LoadToken(agent.URL)
		assert.ErrorIs(t, err, config.ErrTokenNotFound)
	})

	t.Run("token flag", func(t *testing.T) {
		clitest.Isolate(t)
		agent := clitest.NewAgent(t)

		res := clitest.Run(t, agent, NewLoginCommand(), "login", "--token", token, "--no-verify")

		require.NoError(t, res.Err)
		stored, err := config.LoadToken(agent.URL)
		require.NoError(t, err)
		assert.Equal(t, token, stored)
	})

	t.Run("empty input", func(t *testing.T) {
		clitest.Isolate(t)
		agent := clitest.NewAgent(t)

		res := clitest.RunWithInput(t, agent, NewLoginCommand(), "\n", "login", "--no-verify")

		assert.Equal(t, shared.ExitUsage, res.ExitCode())
	})
}

func TestStoredTokenIsUsed(t *testing.T) {
	clitest.Isolate(t)
	agent := clitest.NewAgent(t)
	agent.Handle(http.MethodGet, "/v1/operator/raft/configuration", http.StatusOK, `{"Servers": [], "Index": 1}`)
	require.NoError(t, config.SaveToken(agent.URL, token))

	t.Run("keychain fills in", func(t *testing.T) {
		res := clitest.Run(t, agent, raft.NewCommand(), "raft", "list-peers")

		require.NoError(t, res.Err)
		reqs := agent.Requests()
		assert.Equal(t, token, reqs[len(reqs)-1].Token)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("CONSUL_HTTP_TOKEN", "from-env")

		res := clitest.Run(t, agent, raft.NewCommand(), "raft", "list-peers")

		require.NoError(t, res.Err)
		reqs := agent.Requests()
		assert.Equal(t, "from-env", reqs[len(reqs)-1].Token)
	})
}

func TestLogout(t *testing.T) {
	clitest.Isolate(t)
	agent := clitest.NewAgent(t)

	res := clitest.Run(t, agent, NewLogoutCommand(), "logout")
	assert.Equal(t, shared.ExitUsage, res.ExitCode())

	require.NoError(t, config.SaveToken(agent.URL, token))

	res = clitest.Run(t, agent, NewLogoutCommand(), "logout")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Removed token for "+agent.URL)

	_, err := config.LoadToken(agent.URL)
	assert.ErrorIs(t, err, config.ErrTokenNotFound)
}
