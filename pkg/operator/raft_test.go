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

package operator

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/consul-operator/pkg/consul"
)

func TestRaftGetConfiguration(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `{
		"Servers": [
			{"ID": "127.0.0.1:8300", "Node": "alice", "Address": "127.0.0.1:8300", "Leader": true, "ProtocolVersion": "3", "Voter": true},
			{"ID": "127.0.0.2:8300", "Node": "bob", "Address": "127.0.0.2:8300", "Leader": false, "ProtocolVersion": "3", "Voter": false}
		],
		"Index": 22
	}`)
	agent.SetHeader("X-Consul-Index", "22")
	agent.SetHeader("X-Consul-KnownLeader", "true")

	conf, qm, err := op.RaftGetConfiguration(context.Background(), &consul.QueryOptions{AllowStale: true})
	require.NoError(t, err)

	assert.Equal(t, &RaftConfiguration{
		Servers: []*RaftServer{
			{ID: "127.0.0.1:8300", Node: "alice", Address: "127.0.0.1:8300", Leader: true, ProtocolVersion: "3", Voter: true},
			{ID: "127.0.0.2:8300", Node: "bob", Address: "127.0.0.2:8300", ProtocolVersion: "3"},
		},
		Index: 22,
	}, conf)
	assert.Equal(t, uint64(22), qm.LastIndex)
	assert.True(t, qm.KnownLeader)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v1/operator/raft/configuration", req.Path)
	assert.Equal(t, "stale=", req.Query)
}

func TestRaftRemovePeerByAddress(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, "")

	wm, err := op.RaftRemovePeerByAddress(context.Background(), "10.0.0.5:8300", &consul.WriteOptions{Datacenter: "dc2"})
	require.NoError(t, err)
	require.NotNil(t, wm)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/v1/operator/raft/peer", req.Path)
	assert.Equal(t, "address=10.0.0.5%3A8300&dc=dc2", req.Query)
	assert.Empty(t, req.Body)
}

func TestRaftRemovePeerByID(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, "")

	_, err := op.RaftRemovePeerByID(context.Background(), "e35bde83-4e9c-434f-a6ef-453f44ee21ea", nil)
	require.NoError(t, err)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "id=e35bde83-4e9c-434f-a6ef-453f44ee21ea", req.Query)
}

func TestRaftLeaderTransfer(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `{"Success":true}`)

	out, _, err := op.RaftLeaderTransfer(context.Background(), "", nil)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "", agent.LastRequest(t).Query)

	_, _, err = op.RaftLeaderTransfer(context.Background(), "server-2", nil)
	require.NoError(t, err)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/operator/raft/transfer-leader", req.Path)
	assert.Equal(t, "id=server-2", req.Query)
}
