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

package errors_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	operrors "github.com/tombee/consul-operator/pkg/errors"
)

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *operrors.StatusError
		wantMsg string
	}{
		{
			name:    "with body",
			err:     &operrors.StatusError{StatusCode: 500, Body: "No cluster leader\n"},
			wantMsg: "Unexpected response code: 500 (No cluster leader)",
		},
		{
			name:    "empty body",
			err:     &operrors.StatusError{StatusCode: 403},
			wantMsg: "Unexpected response code: 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("StatusError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestStatusError_Classification(t *testing.T) {
	tests := []struct {
		code      int
		wantType  string
		retryable bool
	}{
		{404, "not_found", false},
		{403, "permission_denied", false},
		{401, "permission_denied", false},
		{429, "rate_limited", true},
		{500, "server", true},
		{503, "server", true},
		{400, "client", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := &operrors.StatusError{StatusCode: tt.code}
			if got := err.ErrorType(); got != tt.wantType {
				t.Errorf("ErrorType() = %q, want %q", got, tt.wantType)
			}
			if got := err.IsRetryable(); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestStatusError_Suggestion(t *testing.T) {
	err := &operrors.StatusError{Method: "GET", Path: "/v1/operator/keyring", StatusCode: 403, Body: "Permission denied"}

	if !err.IsUserVisible() {
		t.Error("StatusError should be user visible")
	}
	if err.Suggestion() == "" {
		t.Error("403 should carry a suggestion")
	}
	want := "GET /v1/operator/keyring failed: Unexpected response code: 403 (Permission denied)"
	if got := err.UserMessage(); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestDecodeError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &operrors.DecodeError{Target: "raft configuration", Cause: cause}

	if got := err.Error(); got != "failed to decode raft configuration: unexpected EOF" {
		t.Errorf("unexpected message: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("DecodeError should unwrap to its cause")
	}
}

func TestMissingFieldError(t *testing.T) {
	err := &operrors.MissingFieldError{Operation: "area create", Field: "ID"}
	want := `area create: response is missing required field "ID"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &operrors.ValidationError{Field: "AllowStale", Message: "cannot be combined with RequireConsistent"}
	want := "validation failed on AllowStale: cannot be combined with RequireConsistent"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &operrors.ValidationError{Message: "invalid format"}
	if got := err.Error(); got != "validation failed: invalid format" {
		t.Errorf("Error() = %q", got)
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := errors.New("no such file")
	err := &operrors.ConfigError{Key: "tls.ca_file", Reason: "cannot read CA", Cause: cause}

	if got := err.Error(); got != "config error at tls.ca_file: cannot read CA" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("ConfigError should unwrap to its cause")
	}
}

func TestTimeoutError(t *testing.T) {
	err := &operrors.TimeoutError{Operation: "GET /v1/operator/area", Duration: 2 * time.Second}
	if got := err.Error(); got != "GET /v1/operator/area operation timed out after 2s" {
		t.Errorf("Error() = %q", got)
	}
	if !err.IsRetryable() {
		t.Error("timeouts should be retryable")
	}
}
