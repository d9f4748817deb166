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

// Package operator exposes Consul's /v1/operator HTTP API as typed method
// calls: Raft peers, the gossip keyring, network areas, Autopilot, license
// and segment information.
//
// Every method takes a context and an optional options value. A nil
// *consul.QueryOptions or *consul.WriteOptions produces exactly the same
// request as a pointer to the zero value.
//
//	client, err := consul.NewClient(consul.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	op := operator.New(client)
//	conf, _, err := op.RaftGetConfiguration(ctx, nil)
package operator

import (
	"context"

	"github.com/tombee/consul-operator/pkg/consul"
)

// Executor builds and executes requests. *consul.Client implements it.
type Executor interface {
	consul.Doer
	NewRequest(method, path string) *consul.Request
}

// Operator is a handle to the operator endpoints. It holds no per-call
// state and is safe for concurrent use when its Executor is.
type Operator struct {
	c Executor
}

// New returns an Operator issuing requests through c.
func New(c Executor) *Operator {
	return &Operator{c: c}
}

func (op *Operator) query(ctx context.Context, r *consul.Request, q *consul.QueryOptions, out any) (*consul.QueryMeta, error) {
	return consul.Query(ctx, op.c, r, q, out)
}

func (op *Operator) write(ctx context.Context, r *consul.Request, w *consul.WriteOptions, out any) (*consul.WriteMeta, error) {
	return consul.Write(ctx, op.c, r, w, out)
}
