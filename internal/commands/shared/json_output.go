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
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tombee/consul-operator/internal/jq"
)

// JSONResponse is the envelope for JSON error output.
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command,omitempty"`
	Success bool   `json:"success"`
}

// JSONError describes one error in JSON output.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// EmitJSON writes v as indented JSON.
func EmitJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// EmitJSONError writes an error envelope.
func EmitJSONError(w io.Writer, command string, errors []JSONError) error {
	type errorResponse struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}

	return EmitJSON(w, errorResponse{
		JSONResponse: JSONResponse{
			Version: "1.0",
			Command: command,
			Success: false,
		},
		Errors: errors,
	})
}

// Render writes data to the command's output. With --jq each value the
// filter emits is printed on its own line, strings unquoted. With --json
// data is printed as indented JSON. Otherwise human renders it.
func Render(cmd *cobra.Command, data any, human func(w io.Writer) error) error {
	w := cmd.OutOrStdout()
	f := Flags()

	switch {
	case f.JQ != "":
		return emitJQ(CommandContext(cmd), w, f.JQ, data)
	case f.JSON || human == nil:
		return EmitJSON(w, data)
	default:
		return human(w)
	}
}

func emitJQ(ctx context.Context, w io.Writer, expression string, data any) error {
	results, err := jq.NewExecutor(0, 0).Execute(ctx, expression, data)
	if err != nil {
		return NewUsageError("jq filter failed", err)
	}

	for _, v := range results {
		if s, ok := v.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		line, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode jq result: %w", err)
		}
		fmt.Fprintln(w, string(line))
	}
	return nil
}

// ValidateOutputFlags rejects a malformed --jq expression before any
// request is sent.
func ValidateOutputFlags() error {
	if err := jq.NewExecutor(0, 0).Validate(Flags().JQ); err != nil {
		return NewUsageError("invalid --jq expression", err)
	}
	return nil
}
