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
	"errors"
	"fmt"
	"io"
	"os"

	operrors "github.com/tombee/consul-operator/pkg/errors"
)

// Exit codes for every command
const (
	ExitSuccess        = 0
	ExitRequestFailed  = 1
	ExitUsage          = 2
	ExitPartialFailure = 3
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewRequestError wraps a failed API call
func NewRequestError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitRequestFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewUsageError reports bad flags, arguments or configuration
func NewUsageError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitUsage,
		Message: msg,
		Cause:   cause,
	}
}

// NewPartialFailureError reports a batch where some items failed
func NewPartialFailureError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitPartialFailure,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCode maps err to a process exit code. Configuration and validation
// errors count as usage errors even when they were not wrapped.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cfgErr *operrors.ConfigError
	var valErr *operrors.ValidationError
	if errors.As(err, &cfgErr) || errors.As(err, &valErr) {
		return ExitUsage
	}

	return ExitRequestFailed
}

// HandleExitError prints err and exits with the matching code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	code := ExitCode(err)
	if GetJSON() {
		_ = EmitJSONError(os.Stdout, "", errorToJSON(err))
	} else {
		writeError(os.Stderr, err)
	}
	os.Exit(code)
}

func writeError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err.Error())
	if suggestion := userSuggestion(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
}

// userSuggestion walks the error chain to find a UserVisibleError or a
// ValidationError carrying a suggestion.
func userSuggestion(err error) string {
	for err != nil {
		if userErr, ok := err.(operrors.UserVisibleError); ok {
			if userErr.IsUserVisible() {
				return userErr.Suggestion()
			}
			return ""
		}
		if valErr, ok := err.(*operrors.ValidationError); ok {
			return valErr.Suggestion
		}

		// Continue unwrapping
		err = errors.Unwrap(err)
	}
	return ""
}
