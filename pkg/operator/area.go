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
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/errors"
)

// AreaRequest defines a network area. It is the body of create and update.
type AreaRequest struct {
	// PeerDatacenter is the datacenter on the other side of the area.
	PeerDatacenter string

	// RetryJoin holds addresses of servers in the peer datacenter to join
	// in the background.
	RetryJoin []string

	// UseTLS encrypts area traffic with the server certificates.
	UseTLS bool
}

// Area is a network area as stored by Consul.
type Area struct {
	// ID is generated by Consul when the area is created.
	ID string

	PeerDatacenter string
	RetryJoin      []string
	UseTLS         bool
}

// AreaJoinResponse is the outcome of joining one address.
type AreaJoinResponse struct {
	// Address is the address that was joined.
	Address string

	// Joined is true if the join succeeded.
	Joined bool

	// Error holds the failure reason when Joined is false.
	Error string
}

// SerfMember is a server in a network area's member list.
type SerfMember struct {
	ID         string
	Name       string
	Addr       net.IP
	Port       uint16
	Datacenter string
	Role       string
	Build      string
	Protocol   int
	Status     string

	// RTT is the estimated round trip time to the member.
	RTT time.Duration
}

type areaIDResponse struct {
	ID string
}

func areaPath(id string, suffix string) string {
	return "/v1/operator/area/" + url.PathEscape(id) + suffix
}

// AreaCreate creates a network area and returns its generated ID. A
// successful response without an ID is reported as *errors.MissingFieldError.
func (op *Operator) AreaCreate(ctx context.Context, area *AreaRequest, w *consul.WriteOptions) (string, *consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPost, "/v1/operator/area")
	r.Obj = area

	var out areaIDResponse
	wm, err := op.write(ctx, r, w, &out)
	if err != nil {
		return "", nil, err
	}
	if out.ID == "" {
		return "", nil, &errors.MissingFieldError{Operation: "area create", Field: "ID"}
	}
	return out.ID, wm, nil
}

// AreaUpdate replaces the definition of area id and returns the ID echoed
// by Consul.
func (op *Operator) AreaUpdate(ctx context.Context, id string, area *AreaRequest, w *consul.WriteOptions) (string, *consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPut, areaPath(id, ""))
	r.Obj = area

	var out areaIDResponse
	wm, err := op.write(ctx, r, w, &out)
	if err != nil {
		return "", nil, err
	}
	if out.ID == "" {
		return "", nil, &errors.MissingFieldError{Operation: "area update", Field: "ID"}
	}
	return out.ID, wm, nil
}

// AreaGet returns the area with the given ID. Consul answers with a list,
// which is empty when no such area exists.
func (op *Operator) AreaGet(ctx context.Context, id string, q *consul.QueryOptions) ([]*Area, *consul.QueryMeta, error) {
	r := op.c.NewRequest(http.MethodGet, areaPath(id, ""))

	var out []*Area
	qm, err := op.query(ctx, r, q, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, qm, nil
}

// AreaList returns all network areas.
func (op *Operator) AreaList(ctx context.Context, q *consul.QueryOptions) ([]*Area, *consul.QueryMeta, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/area")

	var out []*Area
	qm, err := op.query(ctx, r, q, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, qm, nil
}

// AreaDelete deletes the area with the given ID.
func (op *Operator) AreaDelete(ctx context.Context, id string, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodDelete, areaPath(id, ""))
	return op.write(ctx, r, w, nil)
}

// AreaJoin asks the servers to join the given addresses over area id. The
// result has one entry per address in request order; addresses that failed
// to join are reported in their entry and do not make the call fail.
func (op *Operator) AreaJoin(ctx context.Context, id string, addresses []string, w *consul.WriteOptions) ([]*AreaJoinResponse, *consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPut, areaPath(id, "/join"))
	if addresses == nil {
		addresses = []string{}
	}
	r.Obj = addresses

	var out []*AreaJoinResponse
	wm, err := op.write(ctx, r, w, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, wm, nil
}

// AreaMembers lists the Consul servers reachable over area id.
func (op *Operator) AreaMembers(ctx context.Context, id string, q *consul.QueryOptions) ([]*SerfMember, *consul.QueryMeta, error) {
	r := op.c.NewRequest(http.MethodGet, areaPath(id, "/members"))

	var out []*SerfMember
	qm, err := op.query(ctx, r, q, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, qm, nil
}
