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

package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StatusError is returned when the Consul agent answers with a status code
// outside the set the operation accepts.
type StatusError struct {
	// Method is the HTTP verb of the failed request
	Method string

	// Path is the request path (without query string)
	Path string

	// StatusCode is the HTTP status returned by the agent
	StatusCode int

	// Body is the trimmed response body, which Consul uses for its error text
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("Unexpected response code: %d", e.StatusCode)
	}
	return fmt.Sprintf("Unexpected response code: %d (%s)", e.StatusCode, body)
}

// ErrorType implements ErrorClassifier.
func (e *StatusError) ErrorType() string {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return "not_found"
	case e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusUnauthorized:
		return "permission_denied"
	case e.StatusCode == http.StatusTooManyRequests:
		return "rate_limited"
	case e.StatusCode >= 500:
		return "server"
	default:
		return "client"
	}
}

// IsRetryable implements ErrorClassifier. Server errors and rate limiting are
// worth retrying; everything else will fail the same way again.
func (e *StatusError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsUserVisible implements UserVisibleError.
func (e *StatusError) IsUserVisible() bool {
	return true
}

// UserMessage implements UserVisibleError.
func (e *StatusError) UserMessage() string {
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Error())
}

// Suggestion implements UserVisibleError.
func (e *StatusError) Suggestion() string {
	switch e.ErrorType() {
	case "permission_denied":
		return "Check that the ACL token has operator:read or operator:write as required"
	case "not_found":
		return "Verify the identifier and the target datacenter"
	case "rate_limited":
		return "The agent is shedding load; retry later or lower the client rate limit"
	default:
		return ""
	}
}

// DecodeError represents a response body that could not be decoded.
type DecodeError struct {
	// Target describes what was being decoded (e.g., "raft configuration")
	Target string

	// Cause is the underlying decoder error
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("failed to decode %s: %v", e.Target, e.Cause)
	}
	return fmt.Sprintf("failed to decode response: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// MissingFieldError is returned when a successful response lacks a field the
// operation promises to return, such as the generated ID of a network area.
type MissingFieldError struct {
	// Operation names the API call (e.g., "area create")
	Operation string

	// Field is the JSON field that was absent or empty
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: response is missing required field %q", e.Operation, e.Field)
}

// ValidationError represents user input validation failures.
// Use this for invalid user input, malformed data, or constraint violations.
type ValidationError struct {
	// Field identifies which input field failed validation
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "area", "raft peer")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents configuration problems.
// Use this for configuration file errors, missing settings, or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "address", "tls.ca_file")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents operation timeouts.
type TimeoutError struct {
	// Operation describes what timed out (e.g., "GET /v1/operator/keyring")
	Operation string

	// Duration is how long the operation ran before timing out
	Duration time.Duration

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s operation timed out after %v", e.Operation, e.Duration)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// IsRetryable implements ErrorClassifier.
func (e *TimeoutError) IsRetryable() bool {
	return true
}

// ErrorType implements ErrorClassifier.
func (e *TimeoutError) ErrorType() string {
	return "timeout"
}
