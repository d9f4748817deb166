package httpclient

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// New creates a new HTTP client with the given configuration.
//
// Returns an error if the configuration is invalid or the TLS material
// cannot be loaded.
func New(cfg Config) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseTransport, err := newBaseTransport(cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Layer 1: logging, User-Agent, correlation ID
	var finalTransport http.RoundTripper = newLoggingTransport(baseTransport, cfg.UserAgent, logger)

	// Layer 2: rate limiting, so every retry attempt is also paced
	if cfg.RateLimit > 0 {
		finalTransport = newRateLimitTransport(finalTransport, cfg.RateLimit, cfg.RateBurst)
	}

	// Layer 3: retries
	if cfg.RetryAttempts > 0 {
		finalTransport = newRetryTransport(finalTransport, cfg)
	}

	return &http.Client{
		Transport: finalTransport,
		Timeout:   cfg.Timeout,
	}, nil
}

// newBaseTransport returns the pooled transport at the bottom of the stack.
func newBaseTransport(cfg Config) (*http.Transport, error) {
	transport := cleanhttp.DefaultPooledTransport()
	transport.ResponseHeaderTimeout = cfg.Timeout

	if cfg.UnixSocket != "" {
		socket := cfg.UnixSocket
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			d := net.Dialer{Timeout: 10 * time.Second}
			return d.DialContext(ctx, "unix", socket)
		}
		return transport, nil
	}

	tlsConfig, err := SetupTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}
	transport.TLSClientConfig = tlsConfig

	return transport, nil
}
