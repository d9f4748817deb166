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

	"github.com/tombee/consul-operator/pkg/consul"
)

// RaftServer is one member of the Raft peer set.
type RaftServer struct {
	// ID is the unique Raft ID of the server.
	ID string

	// Node is the node name of the server, as known by Consul.
	Node string

	// Address is the IP:port of the server's Raft endpoint.
	Address string

	// Leader is true if this server is the current cluster leader.
	Leader bool

	// ProtocolVersion is the Raft protocol version in use.
	ProtocolVersion string

	// Voter is true if this server has a vote in the cluster.
	Voter bool
}

// RaftConfiguration is a snapshot of the Raft peer set.
type RaftConfiguration struct {
	// Servers is in the order the leader reported it.
	Servers []*RaftServer

	// Index is the Raft index of this configuration.
	Index uint64
}

// TransferLeaderResponse reports whether leadership moved.
type TransferLeaderResponse struct {
	Success bool
}

// RaftGetConfiguration returns the current Raft peer set.
func (op *Operator) RaftGetConfiguration(ctx context.Context, q *consul.QueryOptions) (*RaftConfiguration, *consul.QueryMeta, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/raft/configuration")

	var out RaftConfiguration
	qm, err := op.query(ctx, r, q, &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, qm, nil
}

// RaftRemovePeerByAddress removes a stale peer by its IP:port. Consul
// keeps this form as a transitional API until every server runs a Raft
// protocol with peer IDs.
func (op *Operator) RaftRemovePeerByAddress(ctx context.Context, address string, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodDelete, "/v1/operator/raft/peer")
	r.Params.Set("address", address)
	return op.write(ctx, r, w, nil)
}

// RaftRemovePeerByID removes a stale peer by its Raft ID.
func (op *Operator) RaftRemovePeerByID(ctx context.Context, id string, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodDelete, "/v1/operator/raft/peer")
	r.Params.Set("id", id)
	return op.write(ctx, r, w, nil)
}

// RaftLeaderTransfer asks the leader to step down. An empty id lets the
// leader pick its successor.
func (op *Operator) RaftLeaderTransfer(ctx context.Context, id string, w *consul.WriteOptions) (*TransferLeaderResponse, *consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPost, "/v1/operator/raft/transfer-leader")
	if id != "" {
		r.Params.Set("id", id)
	}

	var out TransferLeaderResponse
	wm, err := op.write(ctx, r, w, &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, wm, nil
}
