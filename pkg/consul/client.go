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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/tombee/consul-operator/internal/tracing"
	"github.com/tombee/consul-operator/pkg/errors"
	"github.com/tombee/consul-operator/pkg/httpclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/tombee/consul-operator/pkg/consul"

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 64 * 1024

// Client builds and executes requests against a Consul agent.
type Client struct {
	config     Config
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    MetricsRecorder
	tracer     trace.Tracer
}

// NewClient creates a client from cfg. Empty Address and Scheme fall back
// to 127.0.0.1:8500 over http.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	if cfg.Scheme == "" {
		cfg.Scheme = defaultScheme
	}

	host, scheme, socket := splitAddress(cfg.Address, cfg.Scheme)
	if socket != "" {
		host = "localhost"
	}
	if scheme != "http" && scheme != "https" {
		return nil, &errors.ConfigError{Key: "scheme", Reason: fmt.Sprintf("unsupported scheme %q", scheme)}
	}
	cfg.Scheme = scheme

	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		data, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return nil, &errors.ConfigError{Key: "token_file", Reason: "failed to read token file", Cause: err}
		}
		token = strings.TrimSpace(string(data))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpCfg := cfg.HTTP
		if httpCfg == (httpclient.Config{}) {
			httpCfg = httpclient.DefaultConfig()
		}
		if httpCfg.Logger == nil {
			httpCfg.Logger = logger
		}
		if socket != "" {
			httpCfg.UnixSocket = socket
		}
		if scheme == "https" {
			tlsCfg := cfg.TLS
			if tlsCfg.Address == "" {
				tlsCfg.Address = host
			}
			httpCfg.TLS = &tlsCfg
		}

		var err error
		httpClient, err = httpclient.New(httpCfg)
		if err != nil {
			return nil, &errors.ConfigError{Key: "http", Reason: "invalid transport configuration", Cause: err}
		}
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Client{
		config: cfg,
		baseURL: &url.URL{
			Scheme: scheme,
			Host:   host,
			Path:   strings.TrimSuffix(cfg.PathPrefix, "/"),
		},
		token:      token,
		httpClient: httpClient,
		logger:     logger,
		metrics:    cfg.Metrics,
		tracer:     tp.Tracer(instrumentationName),
	}, nil
}

// NewRequest starts a request carrying the client-level datacenter,
// namespace, partition and wait defaults.
func (c *Client) NewRequest(method, path string) *Request {
	r := &Request{
		Method: method,
		Path:   path,
		Params: make(url.Values),
		Header: make(http.Header),
	}
	if c.config.Datacenter != "" {
		r.Params.Set("dc", c.config.Datacenter)
	}
	if c.config.Namespace != "" {
		r.Params.Set("ns", c.config.Namespace)
	}
	if c.config.Partition != "" {
		r.Params.Set("partition", c.config.Partition)
	}
	if c.config.WaitTime != 0 {
		r.Params.Set("wait", durToMsec(c.config.WaitTime))
	}
	return r
}

// Do executes the request and returns the raw response with its
// round-trip time. The caller owns the response body. A context that is
// already done is reported before any network I/O.
func (c *Client) Do(ctx context.Context, r *Request) (*http.Response, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if r.err != nil {
		return nil, 0, r.err
	}

	req, err := r.toHTTP(ctx, c.baseURL)
	if err != nil {
		return nil, 0, err
	}
	if req.Header.Get(TokenHeader) == "" && c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	endpoint := tracing.EndpointLabel(r.Path)
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("url.path", r.Path),
	}
	if dc := r.Params.Get("dc"); dc != "" {
		attrs = append(attrs, attribute.String("consul.datacenter", dc))
	}
	ctx, span := c.tracer.Start(ctx, r.Method+" "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()
	req = req.WithContext(ctx)
	tracing.InjectHeaders(ctx, req.Header)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	rtt := time.Since(start)

	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.Observe(r.Method, r.Path, code, rtt)
	}

	logger := c.logger.With(
		"method", r.Method,
		"endpoint", r.Path,
		"duration_ms", rtt.Milliseconds(),
	)
	if id := tracing.FromContextOrEmpty(ctx); id != "" {
		logger = logger.With("correlation_id", id.String())
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("consul request failed", "error", err)
		return nil, rtt, errors.Wrap(err, "consul request")
	}

	span.SetAttributes(attribute.Int("http.response.status_code", code))
	if code >= 400 {
		span.SetStatus(codes.Error, http.StatusText(code))
	}
	logger.Debug("consul request", "status", code)

	return resp, rtt, nil
}

// Doer executes a prepared request. *Client implements it.
type Doer interface {
	Do(ctx context.Context, r *Request) (*http.Response, time.Duration, error)
}

// Query applies q to r, executes it through d, requires a 200, parses the
// query metadata and decodes the body into out.
func Query(ctx context.Context, d Doer, r *Request, q *QueryOptions, out any) (*QueryMeta, error) {
	r.SetQueryOptions(q)

	resp, rtt, err := d.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer CloseResponseBody(resp)

	if err := RequireOK(resp); err != nil {
		return nil, err
	}

	qm := &QueryMeta{RequestTime: rtt}
	if err := ParseQueryMeta(resp, qm); err != nil {
		return nil, err
	}
	if err := DecodeBody(resp, out); err != nil {
		return nil, err
	}
	return qm, nil
}

// Write applies w to r, executes it through d and requires a 200. The body
// is decoded into out when out is non-nil.
func Write(ctx context.Context, d Doer, r *Request, w *WriteOptions, out any) (*WriteMeta, error) {
	r.SetWriteOptions(w)

	resp, rtt, err := d.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer CloseResponseBody(resp)

	if err := RequireOK(resp); err != nil {
		return nil, err
	}

	if out != nil {
		if err := DecodeBody(resp, out); err != nil {
			return nil, err
		}
	}
	return &WriteMeta{RequestTime: rtt}, nil
}

// Query performs a GET against endpoint and decodes the body into out.
func (c *Client) Query(ctx context.Context, endpoint string, out any, q *QueryOptions) (*QueryMeta, error) {
	return Query(ctx, c, c.NewRequest(http.MethodGet, endpoint), q, out)
}

// Write performs a write with an optional JSON body in and an optional
// decoded response out.
func (c *Client) Write(ctx context.Context, method, endpoint string, in, out any, w *WriteOptions) (*WriteMeta, error) {
	r := c.NewRequest(method, endpoint)
	r.Obj = in
	return Write(ctx, c, r, w, out)
}

// RequireOK returns a *errors.StatusError unless the response is 200.
func RequireOK(resp *http.Response) error {
	return RequireHTTPCodes(resp, http.StatusOK)
}

// RequireHTTPCodes returns a *errors.StatusError unless the response
// status is one of codes. The error carries the response body, which is
// consumed.
func RequireHTTPCodes(resp *http.Response, codes ...int) error {
	if slices.Contains(codes, resp.StatusCode) {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &errors.StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
	if resp.Request != nil {
		statusErr.Method = resp.Request.Method
		statusErr.Path = resp.Request.URL.Path
	}
	return statusErr
}

// DecodeBody decodes a JSON response body into out.
func DecodeBody(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errors.DecodeError{Target: fmt.Sprintf("%T", out), Cause: err}
	}
	return nil
}

// CloseResponseBody drains and closes the body so the connection can be
// reused.
func CloseResponseBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
