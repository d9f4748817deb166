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

/*
Package tracing carries the observability plumbing of the Consul client:
correlation IDs, OpenTelemetry spans and Prometheus request metrics.

# Correlation IDs

Every command pins one correlation ID in its context. The HTTP transport
sends it as X-Correlation-ID and the client adds it to debug log lines:

	ctx, id := tracing.EnsureContext(ctx)

# Spans

NewProvider builds an SDK tracer provider exporting to the console, OTLP
over gRPC or OTLP over HTTP. The client starts one span per request and
injects W3C trace headers so a tracing proxy in front of the agent can join
the trace:

	p, err := tracing.NewProvider(ctx, cfg)
	defer p.Shutdown(ctx)

# Metrics

RequestMetrics implements consul.MetricsRecorder with two series labelled
by method, endpoint and status code:

	consul_operator_requests_total
	consul_operator_request_duration_seconds

Endpoints are normalized by EndpointLabel so area IDs do not explode label
cardinality.
*/
package tracing
