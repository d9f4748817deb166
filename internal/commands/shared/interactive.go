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
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// IsNonInteractive reports whether prompts are impossible: explicitly
// disabled, running under CI, or stdin is not a terminal.
func IsNonInteractive() bool {
	// Priority 1: Explicit environment variable
	if os.Getenv("CONSUL_OPERATOR_NON_INTERACTIVE") == "true" {
		return true
	}

	// Priority 2: CI environment detection
	if isCIEnvironment() {
		return true
	}

	// Priority 3: stdin is not a TTY
	return !isTerminal()
}

func isCIEnvironment() bool {
	ciVars := []string{
		"CI",             // Generic CI indicator
		"GITHUB_ACTIONS", // GitHub Actions
		"GITLAB_CI",      // GitLab CI
		"CIRCLECI",       // CircleCI
		"JENKINS_HOME",   // Jenkins
	}

	for _, envVar := range ciVars {
		value := os.Getenv(envVar)
		if value == "true" || value == "1" {
			return true
		}
		// JENKINS_HOME is set to a path, just check if it exists
		if envVar == "JENKINS_HOME" && value != "" {
			return true
		}
	}

	return false
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptConfirm asks a yes/no question. Replaced in tests.
var promptConfirm = func(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	return ok, err
}

// nonInteractive is replaced in tests.
var nonInteractive = IsNonInteractive

// Confirm guards a destructive operation. It returns nil when --yes was
// given or the user agreed, and an ExitError otherwise.
func Confirm(title, description string) error {
	if Flags().Yes {
		return nil
	}

	if nonInteractive() {
		return NewUsageError(title+" requires confirmation",
			errors.New("re-run with --yes in non-interactive mode"))
	}

	ok, err := promptConfirm(title, description)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return NewUsageError("aborted", nil)
		}
		return NewUsageError("confirmation prompt failed", err)
	}
	if !ok {
		return NewUsageError("aborted", nil)
	}
	return nil
}
