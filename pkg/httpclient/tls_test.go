package httpclient

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTLSConfig_Defaults(t *testing.T) {
	cfg, err := SetupTLSConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestSetupTLSConfig_ServerName(t *testing.T) {
	cfg, err := SetupTLSConfig(&TLSConfig{Address: "consul.service.dc1.consul:8501"})
	require.NoError(t, err)
	assert.Equal(t, "consul.service.dc1.consul", cfg.ServerName)

	cfg, err = SetupTLSConfig(&TLSConfig{Address: "server.dc1.consul", InsecureSkipVerify: true})
	require.NoError(t, err)
	assert.Equal(t, "server.dc1.consul", cfg.ServerName)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestSetupTLSConfig_HalfClientCert(t *testing.T) {
	_, err := SetupTLSConfig(&TLSConfig{CertFile: "cert.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both client certificate and key file")

	_, err = SetupTLSConfig(&TLSConfig{KeyPEM: []byte("key")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both client certificate and key PEM")
}

func TestSetupTLSConfig_BadCAFile(t *testing.T) {
	dir := t.TempDir()
	caFile := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(caFile, []byte("not a certificate"), 0o600))

	_, err := SetupTLSConfig(&TLSConfig{CAFile: caFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load CA certificates")
}

func TestSetupTLSConfig_MissingCAPath(t *testing.T) {
	_, err := SetupTLSConfig(&TLSConfig{CAPath: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}
