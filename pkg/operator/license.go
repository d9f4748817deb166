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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tombee/consul-operator/pkg/consul"
)

// ConsulLicense is the license state reported by an Enterprise cluster.
type ConsulLicense struct {
	// Valid is true if the license is currently in effect.
	Valid bool

	// License is the decoded license.
	License *License

	// Warnings lists problems such as upcoming expiry.
	Warnings []string
}

// License is the decoded content of a Consul Enterprise license.
type License struct {
	LicenseID       string    `json:"license_id"`
	CustomerID      string    `json:"customer_id"`
	InstallationID  string    `json:"installation_id"`
	IssueTime       time.Time `json:"issue_time"`
	StartTime       time.Time `json:"start_time"`
	ExpirationTime  time.Time `json:"expiration_time"`
	TerminationTime time.Time `json:"termination_time"`
	Product         string    `json:"product"`
	Flags           Flags     `json:"flags"`
	Modules         []string  `json:"modules"`
	Features        []string  `json:"features"`
}

// Flags holds product-specific license flags. The set of keys is not
// fixed, so values are kept as decoded.
type Flags map[string]any

// Bool returns the named flag as a bool, or false if it is absent or not
// a bool.
func (f Flags) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}

// String returns the named flag formatted as a string, or "" if absent.
func (f Flags) String(name string) string {
	v, ok := f[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// LicenseGet returns the cluster's license. Set q.Datacenter to ask a
// specific datacenter.
func (op *Operator) LicenseGet(ctx context.Context, q *consul.QueryOptions) (*ConsulLicense, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/license")

	var out ConsulLicense
	if _, err := op.query(ctx, r, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LicenseGetSigned returns the signed license blob as Consul stores it.
func (op *Operator) LicenseGetSigned(ctx context.Context, q *consul.QueryOptions) (string, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/license")
	r.Params.Set("signed", "1")
	r.SetQueryOptions(q)

	resp, _, err := op.c.Do(ctx, r)
	if err != nil {
		return "", err
	}
	defer consul.CloseResponseBody(resp)

	if err := consul.RequireOK(resp); err != nil {
		return "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read signed license: %w", err)
	}
	return string(data), nil
}
