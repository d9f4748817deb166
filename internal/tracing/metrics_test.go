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

package tracing

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/operator/raft/configuration", "/v1/operator/raft/configuration"},
		{"/v1/operator/area/8f246b77-f3e1-ff88-5b48-8ec93abf3e05", "/v1/operator/area/{id}"},
		{"/v1/operator/area/8f246b77-f3e1-ff88-5b48-8ec93abf3e05/join", "/v1/operator/area/{id}/join"},
		{"/v1/operator/area/not-a-uuid/members", "/v1/operator/area/not-a-uuid/members"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, EndpointLabel(tt.path))
		})
	}
}

func TestRequestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(reg)

	m.Observe("GET", "/v1/operator/keyring", 200, 15*time.Millisecond)
	m.Observe("GET", "/v1/operator/keyring", 200, 20*time.Millisecond)
	m.Observe("PUT", "/v1/operator/area/8f246b77-f3e1-ff88-5b48-8ec93abf3e05/join", 500, time.Millisecond)
	m.Observe("DELETE", "/v1/operator/raft/peer", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/operator/keyring", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("PUT", "/v1/operator/area/{id}/join", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("DELETE", "/v1/operator/raft/peer", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))

	count, err := testutil.GatherAndCount(reg, "consul_operator_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRequestMetrics_NilSafe(t *testing.T) {
	var m *RequestMetrics
	assert.NotPanics(t, func() {
		m.Observe("GET", "/v1/operator/segment", 200, time.Millisecond)
	})
}

func TestNewRequestMetrics_NilRegisterer(t *testing.T) {
	m := NewRequestMetrics(nil)
	m.Observe("GET", "/v1/operator/license", 200, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/operator/license", "200")))
}
