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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConsulEnv(t *testing.T) {
	t.Helper()
	for _, kv := range []string{
		"CONSUL_HTTP_ADDR", "CONSUL_HTTP_TOKEN", "CONSUL_HTTP_TOKEN_FILE",
		"CONSUL_HTTP_SSL", "CONSUL_HTTP_SSL_VERIFY", "CONSUL_NAMESPACE", "CONSUL_PARTITION",
	} {
		t.Setenv(kv, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolveConfig(t *testing.T) {
	const file = `address: file.example:8500
datacenter: dc-file
token: file-token
http:
  retry_attempts: 1
`

	t.Run("defaults", func(t *testing.T) {
		clearConsulEnv(t)
		setFlags(t, GlobalFlags{})

		cfg, _, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8500", cfg.Address)
		assert.Empty(t, cfg.Token)
	})

	t.Run("file", func(t *testing.T) {
		clearConsulEnv(t)
		setFlags(t, GlobalFlags{Config: writeConfigFile(t, file)})

		cfg, _, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "file.example:8500", cfg.Address)
		assert.Equal(t, "dc-file", cfg.Datacenter)
		assert.Equal(t, "file-token", cfg.Token)
		assert.Equal(t, 1, cfg.HTTP.RetryAttempts)
	})

	t.Run("env beats file", func(t *testing.T) {
		clearConsulEnv(t)
		t.Setenv("CONSUL_HTTP_ADDR", "env.example:8500")
		t.Setenv("CONSUL_HTTP_TOKEN", "env-token")
		setFlags(t, GlobalFlags{Config: writeConfigFile(t, file)})

		cfg, _, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "env.example:8500", cfg.Address)
		assert.Equal(t, "env-token", cfg.Token)
	})

	t.Run("flags beat env", func(t *testing.T) {
		clearConsulEnv(t)
		t.Setenv("CONSUL_HTTP_ADDR", "env.example:8500")
		t.Setenv("CONSUL_HTTP_TOKEN_FILE", "/run/secrets/token")
		setFlags(t, GlobalFlags{
			Config:     writeConfigFile(t, file),
			HTTPAddr:   "flag.example:8500",
			Token:      "flag-token",
			Datacenter: "dc-flag",
		})

		cfg, _, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "flag.example:8500", cfg.Address)
		assert.Equal(t, "flag-token", cfg.Token)
		assert.Empty(t, cfg.TokenFile)
		assert.Equal(t, "dc-flag", cfg.Datacenter)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		clearConsulEnv(t)
		setFlags(t, GlobalFlags{Config: filepath.Join(t.TempDir(), "nope.yaml")})

		_, _, err := ResolveConfig()
		assert.Equal(t, ExitUsage, ExitCode(err))
	})
}

func TestWithToken(t *testing.T) {
	clearConsulEnv(t)
	t.Setenv("CONSUL_HTTP_TOKEN_FILE", "/run/secrets/token")
	setFlags(t, GlobalFlags{})

	cfg, _, err := ResolveConfig()
	require.NoError(t, err)
	WithToken("explicit")(&cfg)

	assert.Equal(t, "explicit", cfg.Token)
	assert.Empty(t, cfg.TokenFile)
}
