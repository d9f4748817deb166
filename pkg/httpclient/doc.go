// Package httpclient builds the HTTP client every Consul request goes
// through: a pooled transport with TLS, plus retry, rate limiting and
// request logging layered on top.
//
// The stack, outermost first:
//   - retry with exponential backoff and jitter (cenkalti/backoff)
//   - client-side rate limiting (golang.org/x/time/rate), off by default
//   - request logging with sanitized URLs, User-Agent and correlation ID
//   - pooled base transport from go-cleanhttp with TLS from go-rootcerts
//
// # Usage
//
//	cfg := httpclient.DefaultConfig()
//	cfg.TLS = &httpclient.TLSConfig{CAFile: "/etc/consul.d/ca.pem"}
//	client, err := httpclient.New(cfg)
//	if err != nil {
//	    return err
//	}
//
// # Retry Behavior
//
// The client retries transient failures:
//   - HTTP 5xx, 408 and 429 (honouring Retry-After)
//   - network errors such as connection refused or reset
//   - never after context cancellation
//
// Only GET, HEAD and OPTIONS are retried by default. Consul operator writes
// (keyring changes, area joins, peer removal) are not safe to replay blindly,
// so AllowNonIdempotentRetry stays off unless the caller opts in.
//
// # Security
//
//   - Sensitive query parameters (token, key, secret, ...) are redacted from logs
//   - Request headers, including X-Consul-Token, are never logged
//   - TLS 1.2 minimum with certificate validation enabled
package httpclient
