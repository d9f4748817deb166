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

package shared

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	operrors "github.com/tombee/consul-operator/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitRequestFailed},
		{"request error", NewRequestError("failed", errors.New("x")), ExitRequestFailed},
		{"usage error", NewUsageError("bad flag", nil), ExitUsage},
		{"partial failure", NewPartialFailureError("1 of 2 failed", nil), ExitPartialFailure},
		{"config error", &operrors.ConfigError{Key: "address", Reason: "empty"}, ExitUsage},
		{"validation error", &operrors.ValidationError{Field: "ID", Message: "required"}, ExitUsage},
		{"wrapped validation", operrors.Wrap(&operrors.ValidationError{Field: "ID"}, "create"), ExitUsage},
		{"status error", &operrors.StatusError{StatusCode: 500}, ExitRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"partial failure", NewPartialFailureError("some failed", errors.New("x")), ErrorCodePartialFailure},
		{"config", NewUsageError("bad config", &operrors.ConfigError{Key: "log.format"}), ErrorCodeConfig},
		{"validation", &operrors.ValidationError{Field: "QueryOptions"}, ErrorCodeValidation},
		{"not found", NewRequestError("get", &operrors.StatusError{StatusCode: 404}), ErrorCodeNotFound},
		{"missing resource", NewRequestError("failed to read area", &operrors.NotFoundError{Resource: "area", ID: "nope"}), ErrorCodeNotFound},
		{"forbidden", &operrors.StatusError{StatusCode: 403}, ErrorCodePermissionDenied},
		{"decode", &operrors.DecodeError{Target: "area", Cause: errors.New("eof")}, ErrorCodeDecode},
		{"missing field", &operrors.MissingFieldError{Operation: "area create", Field: "ID"}, ErrorCodeMissingField},
		{"usage", NewUsageError("bad flag", nil), ErrorCodeUsage},
		{"other", errors.New("boom"), ErrorCodeRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}

func TestErrorToJSON(t *testing.T) {
	err := NewRequestError("failed to read Raft configuration",
		&operrors.StatusError{Method: "GET", Path: "/v1/operator/raft/configuration", StatusCode: 403, Body: "Permission denied"})

	got := errorToJSON(err)

	assert.Len(t, got, 1)
	assert.Equal(t, ErrorCodePermissionDenied, got[0].Code)
	assert.Equal(t, 403, got[0].StatusCode)
	assert.Contains(t, got[0].Message, "Permission denied")
	assert.Contains(t, got[0].Suggestion, "operator:read")
}

func TestWriteError(t *testing.T) {
	t.Run("with suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		writeError(&buf, NewUsageError("invalid query",
			&operrors.ValidationError{Field: "QueryOptions", Message: "conflict", Suggestion: "Choose one consistency mode"}))

		assert.Contains(t, buf.String(), "Error: invalid query")
		assert.Contains(t, buf.String(), "Suggestion: Choose one consistency mode")
	})

	t.Run("without suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		writeError(&buf, errors.New("boom"))

		assert.Equal(t, "Error: boom\n", buf.String())
	})
}

func TestExitErrorUnwrap(t *testing.T) {
	cause := &operrors.StatusError{StatusCode: 500}
	err := NewRequestError("failed", cause)

	assert.Equal(t, "failed: Unexpected response code: 500", err.Error())
	assert.Equal(t, 500, operrors.StatusCode(err))
	assert.Equal(t, "aborted", NewUsageError("aborted", nil).Error())
}
