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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TokenHeader carries the ACL token. The token is never sent as a query
// parameter.
const TokenHeader = "X-Consul-Token"

// Request is a Consul API request under construction. Build it with
// Client.NewRequest, adjust it, then hand it to Client.Do.
type Request struct {
	Method string
	Path   string
	Params url.Values
	Header http.Header

	// Obj is JSON-encoded as the request body when non-nil.
	Obj any

	// Body is sent as-is when Obj is nil.
	Body io.Reader

	// err is a deferred construction error, reported by Client.Do.
	err error
}

// toHTTP converts the request into an *http.Request rooted at base.
func (r *Request) toHTTP(ctx context.Context, base *url.URL) (*http.Request, error) {
	// Path may hold escaped identifiers; keep the escaped form on the wire.
	path, err := url.PathUnescape(r.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", r.Path, err)
	}
	u := *base
	u.Path = base.Path + path
	u.RawPath = base.EscapedPath() + r.Path
	u.RawQuery = r.Params.Encode()

	body := r.Body
	if r.Obj != nil {
		buf, err := json.Marshal(r.Obj)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Obj != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
