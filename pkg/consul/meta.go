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
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// QueryMeta is the metadata Consul attaches to read responses.
type QueryMeta struct {
	// LastIndex is the Raft index of the returned data, for blocking queries.
	LastIndex uint64

	// LastContentHash is the hash used by hash-based blocking queries.
	LastContentHash string

	// LastContact is the time since the answering server last heard from
	// the leader. Zero for consistent reads.
	LastContact time.Duration

	// KnownLeader reports whether the answering server knew of a leader.
	KnownLeader bool

	// RequestTime is the round-trip time of the request.
	RequestTime time.Duration

	// CacheHit and CacheAge describe agent-cache served results.
	CacheHit bool
	CacheAge time.Duration
}

// WriteMeta is the metadata of a write response.
type WriteMeta struct {
	// RequestTime is the round-trip time of the request.
	RequestTime time.Duration
}

// ParseQueryMeta fills q from the response headers. Absent headers leave
// the corresponding fields at their zero value.
func ParseQueryMeta(resp *http.Response, q *QueryMeta) error {
	header := resp.Header

	if indexStr := header.Get("X-Consul-Index"); indexStr != "" {
		index, err := strconv.ParseUint(indexStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse X-Consul-Index: %w", err)
		}
		q.LastIndex = index
	}

	q.LastContentHash = header.Get("X-Consul-ContentHash")

	if last := header.Get("X-Consul-LastContact"); last != "" {
		ms, err := strconv.ParseUint(last, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse X-Consul-LastContact: %w", err)
		}
		q.LastContact = time.Duration(ms) * time.Millisecond
	}

	q.KnownLeader = header.Get("X-Consul-KnownLeader") == "true"

	if strings.EqualFold(header.Get("X-Cache"), "HIT") {
		q.CacheHit = true
	}
	if age := header.Get("Age"); age != "" {
		secs, err := strconv.ParseUint(age, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse Age header: %w", err)
		}
		q.CacheAge = time.Duration(secs) * time.Second
	}

	return nil
}
