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

// KeyringResponse is the state of one gossip keyring: the WAN pool, or the
// LAN pool of one datacenter or segment.
type KeyringResponse struct {
	// WAN is true for the WAN gossip pool.
	WAN bool

	// Datacenter the keyring belongs to.
	Datacenter string

	// Segment is the LAN segment, empty for the default segment.
	Segment string `json:",omitempty"`

	// Messages holds per-node errors, keyed by node name. The operation is
	// reported as a whole even when some nodes failed.
	Messages map[string]string

	// Keys maps each installed key to the number of nodes holding it.
	Keys map[string]int

	// PrimaryKeys maps each primary key to the number of nodes using it.
	PrimaryKeys map[string]int

	// NumNodes is the total number of nodes in the pool.
	NumNodes int
}

type keyringRequest struct {
	Key string
}

// KeyringInstall distributes a new gossip encryption key to the cluster.
func (op *Operator) KeyringInstall(ctx context.Context, key string, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPost, "/v1/operator/keyring")
	r.Obj = keyringRequest{Key: key}
	return op.write(ctx, r, w, nil)
}

// KeyringList returns one entry per gossip pool across the cluster.
func (op *Operator) KeyringList(ctx context.Context, q *consul.QueryOptions) ([]*KeyringResponse, *consul.QueryMeta, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/keyring")

	var out []*KeyringResponse
	qm, err := op.query(ctx, r, q, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, qm, nil
}

// KeyringRemove removes a gossip key from the cluster. The primary key
// cannot be removed.
func (op *Operator) KeyringRemove(ctx context.Context, key string, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodDelete, "/v1/operator/keyring")
	r.Obj = keyringRequest{Key: key}
	return op.write(ctx, r, w, nil)
}

// KeyringUse makes an installed key the primary gossip key.
func (op *Operator) KeyringUse(ctx context.Context, key string, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPut, "/v1/operator/keyring")
	r.Obj = keyringRequest{Key: key}
	return op.write(ctx, r, w, nil)
}
