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

package consul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearConsulEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		HTTPAddrEnvName, HTTPTokenEnvName, HTTPTokenFileEnvName, HTTPSSLEnvName,
		HTTPSSLVerifyEnvName, HTTPCAFileEnvName, HTTPCAPathEnvName, HTTPClientCertEnvName,
		HTTPClientKeyEnvName, HTTPTLSServerNameEnvName, HTTPNamespaceEnvName, HTTPPartitionEnvName,
	} {
		t.Setenv(name, "")
	}
}

func TestDefaultConfig_NoEnv(t *testing.T) {
	clearConsulEnv(t)

	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8500", cfg.Address)
	assert.Equal(t, "http", cfg.Scheme)
	assert.Empty(t, cfg.Token)
	assert.False(t, cfg.TLS.InsecureSkipVerify)
	assert.Equal(t, 3, cfg.HTTP.RetryAttempts)
}

func TestDefaultConfig_Env(t *testing.T) {
	clearConsulEnv(t)
	t.Setenv(HTTPAddrEnvName, "consul.example.com:8501")
	t.Setenv(HTTPTokenEnvName, "env-token")
	t.Setenv(HTTPTokenFileEnvName, "/etc/consul/token")
	t.Setenv(HTTPSSLEnvName, "true")
	t.Setenv(HTTPSSLVerifyEnvName, "false")
	t.Setenv(HTTPCAFileEnvName, "/etc/consul/ca.pem")
	t.Setenv(HTTPCAPathEnvName, "/etc/consul/ca.d")
	t.Setenv(HTTPClientCertEnvName, "/etc/consul/client.pem")
	t.Setenv(HTTPClientKeyEnvName, "/etc/consul/client-key.pem")
	t.Setenv(HTTPTLSServerNameEnvName, "server.dc1.consul")
	t.Setenv(HTTPNamespaceEnvName, "team-a")
	t.Setenv(HTTPPartitionEnvName, "part-1")

	cfg := DefaultConfig()
	assert.Equal(t, "consul.example.com:8501", cfg.Address)
	assert.Equal(t, "https", cfg.Scheme)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "/etc/consul/token", cfg.TokenFile)
	assert.True(t, cfg.TLS.InsecureSkipVerify)
	assert.Equal(t, "/etc/consul/ca.pem", cfg.TLS.CAFile)
	assert.Equal(t, "/etc/consul/ca.d", cfg.TLS.CAPath)
	assert.Equal(t, "/etc/consul/client.pem", cfg.TLS.CertFile)
	assert.Equal(t, "/etc/consul/client-key.pem", cfg.TLS.KeyFile)
	assert.Equal(t, "server.dc1.consul", cfg.TLS.Address)
	assert.Equal(t, "team-a", cfg.Namespace)
	assert.Equal(t, "part-1", cfg.Partition)
}

func TestDefaultConfig_MalformedBool(t *testing.T) {
	clearConsulEnv(t)
	t.Setenv(HTTPSSLEnvName, "maybe")

	cfg := DefaultConfig()
	assert.Equal(t, "http", cfg.Scheme)
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		address, scheme         string
		host, outScheme, socket string
	}{
		{"127.0.0.1:8500", "http", "127.0.0.1:8500", "http", ""},
		{"https://c:8501", "http", "c:8501", "https", ""},
		{"http://c:8500", "https", "c:8500", "http", ""},
		{"unix:///run/consul.sock", "https", "", "http", "/run/consul.sock"},
	}

	for _, tt := range tests {
		host, scheme, socket := splitAddress(tt.address, tt.scheme)
		assert.Equal(t, tt.host, host, tt.address)
		assert.Equal(t, tt.outScheme, scheme, tt.address)
		assert.Equal(t, tt.socket, socket, tt.address)
	}
}
