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

// SegmentList returns the names of the LAN segments. The default segment
// is listed as "".
func (op *Operator) SegmentList(ctx context.Context, q *consul.QueryOptions) ([]string, *consul.QueryMeta, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/segment")

	var out []string
	qm, err := op.query(ctx, r, q, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, qm, nil
}
