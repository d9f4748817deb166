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

package integration

import (
	"os"
	"testing"
)

// EnableEnvName gates every integration test.
const EnableEnvName = "CONSUL_OPERATOR_INTEGRATION"

// TestConfig describes the agent under test.
type TestConfig struct {
	// Address is the agent's HTTP address (defaults to 127.0.0.1:8500).
	Address string

	// Token is an ACL token with operator:write, empty for a dev agent.
	Token string
}

// LoadConfig reads the agent location from the standard Consul variables.
func LoadConfig() *TestConfig {
	cfg := &TestConfig{
		Address: os.Getenv("CONSUL_HTTP_ADDR"),
		Token:   os.Getenv("CONSUL_HTTP_TOKEN"),
	}

	if cfg.Address == "" {
		cfg.Address = "127.0.0.1:8500"
	}

	return cfg
}

// SkipWithoutAgent skips the test unless integration tests are enabled.
func SkipWithoutAgent(t *testing.T) *TestConfig {
	t.Helper()

	if os.Getenv(EnableEnvName) == "" {
		t.Skipf("Skipping test: %s not set", EnableEnvName)
	}
	return LoadConfig()
}
