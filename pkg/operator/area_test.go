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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/errors"
)

func TestAreaCreate(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `{"ID":"`+testAreaID+`"}`)

	id, wm, err := op.AreaCreate(context.Background(), &AreaRequest{
		PeerDatacenter: "dc2",
		RetryJoin:      []string{"10.1.2.3", "10.1.2.4"},
		UseTLS:         true,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, wm)
	assert.Equal(t, testAreaID, id)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/operator/area", req.Path)
	assert.JSONEq(t, `{"PeerDatacenter":"dc2","RetryJoin":["10.1.2.3","10.1.2.4"],"UseTLS":true}`, req.Body)
}

func TestAreaCreateUpdate_MissingID(t *testing.T) {
	for _, body := range []string{`{}`, `{"ID":""}`} {
		t.Run(body, func(t *testing.T) {
			_, op := newTestOperator(t, http.StatusOK, body)

			id, wm, err := op.AreaCreate(context.Background(), &AreaRequest{PeerDatacenter: "dc2"}, nil)
			var missing *errors.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "ID", missing.Field)
			assert.Equal(t, "area create", missing.Operation)
			assert.Empty(t, id)
			assert.Nil(t, wm)

			id, wm, err = op.AreaUpdate(context.Background(), testAreaID, &AreaRequest{PeerDatacenter: "dc2"}, nil)
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "area update", missing.Operation)
			assert.Empty(t, id)
			assert.Nil(t, wm)
		})
	}
}

func TestAreaUpdate(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `{"ID":"`+testAreaID+`"}`)

	id, _, err := op.AreaUpdate(context.Background(), testAreaID, &AreaRequest{PeerDatacenter: "dc3"}, &consul.WriteOptions{Token: "area-token"})
	require.NoError(t, err)
	assert.Equal(t, testAreaID, id)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/v1/operator/area/"+testAreaID, req.Path)
	assert.Equal(t, "area-token", req.Token)
	assert.JSONEq(t, `{"PeerDatacenter":"dc3","RetryJoin":null,"UseTLS":false}`, req.Body)
}

func TestAreaListAndGet(t *testing.T) {
	body := `[{"ID":"` + testAreaID + `","PeerDatacenter":"dc2","RetryJoin":["10.1.2.3"],"UseTLS":false}]`
	want := []*Area{{ID: testAreaID, PeerDatacenter: "dc2", RetryJoin: []string{"10.1.2.3"}}}

	agent, op := newTestOperator(t, http.StatusOK, body)

	list, _, err := op.AreaList(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, want, list)
	assert.Equal(t, "/v1/operator/area", agent.LastRequest(t).Path)

	got, _, err := op.AreaGet(context.Background(), testAreaID, &consul.QueryOptions{Datacenter: "dc1"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v1/operator/area/"+testAreaID, req.Path)
	assert.Equal(t, "dc=dc1", req.Query)
}

func TestAreaDelete(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, "")

	_, err := op.AreaDelete(context.Background(), testAreaID, nil)
	require.NoError(t, err)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/v1/operator/area/"+testAreaID, req.Path)
}

func TestAreaJoin_PreservesOrderAndPartialFailure(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `[
		{"Address": "10.1.2.3", "Joined": true, "Error": ""},
		{"Address": "10.1.2.4", "Joined": false, "Error": "dial tcp 10.1.2.4:8302: i/o timeout"},
		{"Address": "10.1.2.5", "Joined": true, "Error": ""}
	]`)

	addresses := []string{"10.1.2.3", "10.1.2.4", "10.1.2.5"}
	out, wm, err := op.AreaJoin(context.Background(), testAreaID, addresses, nil)
	require.NoError(t, err)
	require.NotNil(t, wm)

	require.Len(t, out, len(addresses))
	for i, addr := range addresses {
		assert.Equal(t, addr, out[i].Address)
	}
	assert.True(t, out[0].Joined)
	assert.False(t, out[1].Joined)
	assert.Equal(t, "dial tcp 10.1.2.4:8302: i/o timeout", out[1].Error)
	assert.True(t, out[2].Joined)

	req := agent.LastRequest(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/v1/operator/area/"+testAreaID+"/join", req.Path)
	assert.JSONEq(t, `["10.1.2.3","10.1.2.4","10.1.2.5"]`, req.Body)
}

func TestAreaJoin_NilAddresses(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `[]`)

	out, _, err := op.AreaJoin(context.Background(), testAreaID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.JSONEq(t, `[]`, agent.LastRequest(t).Body)
}

func TestAreaMembers(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `[{
		"ID": "afc5d95c-1eee-4b46-b85b-0efe4c76dd48",
		"Name": "node-2.dc1",
		"Addr": "127.0.0.2",
		"Port": 8300,
		"Datacenter": "dc1",
		"Role": "server",
		"Build": "1.17.0",
		"Protocol": 2,
		"Status": "alive",
		"RTT": 256478
	}]`)

	out, _, err := op.AreaMembers(context.Background(), testAreaID, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, &SerfMember{
		ID:         "afc5d95c-1eee-4b46-b85b-0efe4c76dd48",
		Name:       "node-2.dc1",
		Addr:       net.ParseIP("127.0.0.2"),
		Port:       8300,
		Datacenter: "dc1",
		Role:       "server",
		Build:      "1.17.0",
		Protocol:   2,
		Status:     "alive",
		RTT:        256478 * time.Nanosecond,
	}, out[0])

	assert.Equal(t, "/v1/operator/area/"+testAreaID+"/members", agent.LastRequest(t).Path)
}

func TestArea_EscapesIdentifier(t *testing.T) {
	agent, op := newTestOperator(t, http.StatusOK, `[]`)

	_, _, err := op.AreaGet(context.Background(), "odd/id?x", nil)
	require.NoError(t, err)

	req := agent.LastRequest(t)
	assert.Equal(t, "/v1/operator/area/odd%2Fid%3Fx", req.Path)
	assert.Empty(t, req.Query)
}
