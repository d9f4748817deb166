package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"strings"

	"github.com/hashicorp/go-rootcerts"
)

// TLSConfig describes how to talk HTTPS to a Consul agent. File and PEM
// fields are alternatives; when both are set the PEM bytes win.
type TLSConfig struct {
	// Address is the server name used for SNI and verification. A host:port
	// value is accepted and the port is dropped.
	Address string

	// CAFile is a PEM bundle of CA certificates.
	CAFile string

	// CAPath is a directory of PEM CA certificates.
	CAPath string

	// CAPem holds CA certificates in memory.
	CAPem []byte

	// CertFile and KeyFile are the client certificate pair for mTLS.
	CertFile string
	KeyFile  string

	// CertPEM and KeyPEM are the in-memory client certificate pair.
	CertPEM []byte
	KeyPEM  []byte

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool
}

// SetupTLSConfig turns a TLSConfig into a *tls.Config with TLS 1.2 minimum.
// A nil input yields the secure default.
func SetupTLSConfig(in *TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if in == nil {
		return tlsConfig, nil
	}

	tlsConfig.InsecureSkipVerify = in.InsecureSkipVerify

	if in.Address != "" {
		server := in.Address
		if host, _, err := net.SplitHostPort(server); err == nil {
			server = host
		}
		tlsConfig.ServerName = strings.TrimSpace(server)
	}

	switch {
	case len(in.CertPEM) != 0 && len(in.KeyPEM) != 0:
		cert, err := tls.X509KeyPair(in.CertPEM, in.KeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	case len(in.CertPEM) != 0 || len(in.KeyPEM) != 0:
		return nil, fmt.Errorf("both client certificate and key PEM must be provided")
	case in.CertFile != "" && in.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(in.CertFile, in.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	case in.CertFile != "" || in.KeyFile != "":
		return nil, fmt.Errorf("both client certificate and key file must be provided")
	}

	if in.CAFile != "" || in.CAPath != "" || len(in.CAPem) != 0 {
		rootConfig := &rootcerts.Config{
			CAFile:        in.CAFile,
			CAPath:        in.CAPath,
			CACertificate: in.CAPem,
		}
		if err := rootcerts.ConfigureTLS(tlsConfig, rootConfig); err != nil {
			return nil, fmt.Errorf("failed to load CA certificates: %w", err)
		}
	}

	return tlsConfig, nil
}
