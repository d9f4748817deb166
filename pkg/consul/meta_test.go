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

package consul

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryMeta(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-Consul-Index", "1234")
	resp.Header.Set("X-Consul-ContentHash", "abcd")
	resp.Header.Set("X-Consul-LastContact", "250")
	resp.Header.Set("X-Consul-KnownLeader", "true")
	resp.Header.Set("X-Cache", "HIT")
	resp.Header.Set("Age", "30")

	var qm QueryMeta
	require.NoError(t, ParseQueryMeta(resp, &qm))

	assert.Equal(t, QueryMeta{
		LastIndex:       1234,
		LastContentHash: "abcd",
		LastContact:     250 * time.Millisecond,
		KnownLeader:     true,
		CacheHit:        true,
		CacheAge:        30 * time.Second,
	}, qm)
}

func TestParseQueryMeta_Empty(t *testing.T) {
	var qm QueryMeta
	require.NoError(t, ParseQueryMeta(&http.Response{Header: http.Header{}}, &qm))
	assert.Equal(t, QueryMeta{}, qm)
}

func TestParseQueryMeta_Malformed(t *testing.T) {
	for _, header := range []string{"X-Consul-Index", "X-Consul-LastContact", "Age"} {
		t.Run(header, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			resp.Header.Set(header, "not-a-number")

			var qm QueryMeta
			err := ParseQueryMeta(resp, &qm)
			require.Error(t, err)
			assert.Contains(t, err.Error(), header)
		})
	}
}
