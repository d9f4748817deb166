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
	"strconv"
	"time"

	"github.com/tombee/consul-operator/pkg/errors"
)

// QueryOptions are the parameters of a read request. The zero value asks
// for the agent's datacenter with default consistency and the client's
// token.
type QueryOptions struct {
	// Datacenter overrides the client's default datacenter.
	Datacenter string

	// AllowStale lets any server answer, at the cost of possibly stale data.
	AllowStale bool

	// RequireConsistent forces a leader round-trip. It cannot be combined
	// with AllowStale.
	RequireConsistent bool

	// UseCache serves the result from the agent cache where supported.
	UseCache bool

	// MaxAge bounds the age of a cached result. Requires UseCache.
	MaxAge time.Duration

	// StaleIfError allows a cached result of up to this age when the
	// servers are unreachable. Requires UseCache.
	StaleIfError time.Duration

	// WaitIndex turns the request into a blocking query that returns once
	// the index moves past this value.
	WaitIndex uint64

	// WaitHash is the hash-based alternative to WaitIndex.
	WaitHash string

	// WaitTime bounds a blocking query.
	WaitTime time.Duration

	// Token overrides the client's ACL token.
	Token string

	// Near sorts results by round-trip time from the named node.
	Near string

	// NodeMeta filters by node metadata key/value pairs.
	NodeMeta map[string]string

	// Filter is a bexpr filter expression.
	Filter string

	// Namespace and Partition override the client's Enterprise defaults.
	Namespace string
	Partition string

	// LocalOnly restricts keyring listing to the local datacenter's pool.
	LocalOnly bool

	// RelayFactor asks keyring listing to relay responses through this
	// many additional nodes. Valid values are 0 to 5.
	RelayFactor uint8
}

// WriteOptions are the parameters of a write request. The zero value
// targets the agent's datacenter with the client's token.
type WriteOptions struct {
	// Datacenter overrides the client's default datacenter.
	Datacenter string

	// Token overrides the client's ACL token.
	Token string

	// Namespace and Partition override the client's Enterprise defaults.
	Namespace string
	Partition string

	// RelayFactor asks keyring operations to relay responses through this
	// many additional nodes. Valid values are 0 to 5.
	RelayFactor uint8
}

// SetQueryOptions applies q to the request. A nil q leaves the request
// unchanged. Invalid combinations are reported by Client.Do.
func (r *Request) SetQueryOptions(q *QueryOptions) {
	if q == nil {
		return
	}
	if q.AllowStale && q.RequireConsistent {
		r.err = &errors.ValidationError{
			Field:      "QueryOptions",
			Message:    "AllowStale and RequireConsistent are mutually exclusive",
			Suggestion: "Choose one consistency mode",
		}
		return
	}

	if q.Datacenter != "" {
		r.Params.Set("dc", q.Datacenter)
	}
	if q.Namespace != "" {
		r.Params.Set("ns", q.Namespace)
	}
	if q.Partition != "" {
		r.Params.Set("partition", q.Partition)
	}
	if q.AllowStale {
		r.Params.Set("stale", "")
	}
	if q.RequireConsistent {
		r.Params.Set("consistent", "")
	}
	if q.WaitIndex != 0 {
		r.Params.Set("index", strconv.FormatUint(q.WaitIndex, 10))
	}
	if q.WaitTime != 0 {
		r.Params.Set("wait", durToMsec(q.WaitTime))
	}
	if q.WaitHash != "" {
		r.Params.Set("hash", q.WaitHash)
	}
	if q.Token != "" {
		r.Header.Set(TokenHeader, q.Token)
	}
	if q.Near != "" {
		r.Params.Set("near", q.Near)
	}
	if q.Filter != "" {
		r.Params.Set("filter", q.Filter)
	}
	for k, v := range q.NodeMeta {
		r.Params.Add("node-meta", k+":"+v)
	}
	if q.LocalOnly {
		r.Params.Set("local-only", "true")
	}
	if q.RelayFactor != 0 {
		r.Params.Set("relay-factor", strconv.Itoa(int(q.RelayFactor)))
	}
	if q.UseCache {
		r.Params.Set("cached", "")

		var cc []string
		if q.MaxAge > 0 {
			cc = append(cc, fmt.Sprintf("max-age=%.0f", q.MaxAge.Seconds()))
		}
		if q.StaleIfError > 0 {
			cc = append(cc, fmt.Sprintf("stale-if-error=%.0f", q.StaleIfError.Seconds()))
		}
		for _, v := range cc {
			r.Header.Add("Cache-Control", v)
		}
	}
}

// SetWriteOptions applies w to the request. A nil w leaves the request
// unchanged.
func (r *Request) SetWriteOptions(w *WriteOptions) {
	if w == nil {
		return
	}
	if w.Datacenter != "" {
		r.Params.Set("dc", w.Datacenter)
	}
	if w.Namespace != "" {
		r.Params.Set("ns", w.Namespace)
	}
	if w.Partition != "" {
		r.Params.Set("partition", w.Partition)
	}
	if w.Token != "" {
		r.Header.Set(TokenHeader, w.Token)
	}
	if w.RelayFactor != 0 {
		r.Params.Set("relay-factor", strconv.Itoa(int(w.RelayFactor)))
	}
}

// durToMsec renders a duration the way Consul parses wait parameters.
func durToMsec(dur time.Duration) string {
	ms := dur / time.Millisecond
	if dur > 0 && ms == 0 {
		ms = 1
	}
	return fmt.Sprintf("%dms", ms)
}
