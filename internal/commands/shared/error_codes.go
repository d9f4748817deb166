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

	operrors "github.com/tombee/consul-operator/pkg/errors"
)

// Error codes reported in JSON error output.
const (
	// Usage errors (E001-E099)
	ErrorCodeUsage      = "E001" // Bad flag or argument
	ErrorCodeValidation = "E002" // Request rejected before sending

	// Request errors (E100-E199)
	ErrorCodeRequestFailed    = "E101" // Transport failure or unexpected status
	ErrorCodeNotFound         = "E102" // 404 from the agent
	ErrorCodePermissionDenied = "E103" // 403 from the agent
	ErrorCodeDecode           = "E104" // Response body did not decode
	ErrorCodeMissingField     = "E105" // Response lacked a required field

	// Configuration errors (E200-E299)
	ErrorCodeConfig = "E201" // Config file or environment problem

	// Batch errors (E300-E399)
	ErrorCodePartialFailure = "E301" // Some items of a batch failed
)

// errorCode classifies err for JSON output.
func errorCode(err error) string {
	var (
		cfgErr     *operrors.ConfigError
		valErr     *operrors.ValidationError
		decodeErr  *operrors.DecodeError
		missingErr *operrors.MissingFieldError
		exitErr    *ExitError
	)

	switch {
	case errors.As(err, &exitErr) && exitErr.Code == ExitPartialFailure:
		return ErrorCodePartialFailure
	case errors.As(err, &cfgErr):
		return ErrorCodeConfig
	case errors.As(err, &valErr):
		return ErrorCodeValidation
	case operrors.IsNotFound(err):
		return ErrorCodeNotFound
	case operrors.IsPermissionDenied(err):
		return ErrorCodePermissionDenied
	case errors.As(err, &decodeErr):
		return ErrorCodeDecode
	case errors.As(err, &missingErr):
		return ErrorCodeMissingField
	case errors.As(err, &exitErr) && exitErr.Code == ExitUsage:
		return ErrorCodeUsage
	default:
		return ErrorCodeRequestFailed
	}
}

func errorToJSON(err error) []JSONError {
	return []JSONError{{
		Code:       errorCode(err),
		Message:    err.Error(),
		Suggestion: userSuggestion(err),
		StatusCode: operrors.StatusCode(err),
	}}
}
