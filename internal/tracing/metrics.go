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

package tracing

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestMetrics records one sample per Consul API call. A nil
// *RequestMetrics is valid and records nothing.
type RequestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRequestMetrics registers the request collectors on reg. A nil
// registerer creates unregistered collectors.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	factory := promauto.With(reg)
	return &RequestMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consul_operator",
				Name:      "requests_total",
				Help:      "Total number of Consul operator API requests",
			},
			[]string{"method", "endpoint", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "consul_operator",
				Name:      "request_duration_seconds",
				Help:      "Duration of Consul operator API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Observe records a finished request. code is the HTTP status, or 0 when
// the request never produced a response.
func (m *RequestMetrics) Observe(method, path string, code int, d time.Duration) {
	if m == nil {
		return
	}

	endpoint := EndpointLabel(path)
	codeLabel := "error"
	if code > 0 {
		codeLabel = strconv.Itoa(code)
	}

	m.requests.WithLabelValues(method, endpoint, codeLabel).Inc()
	m.duration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// EndpointLabel collapses UUID path segments, such as network area IDs, to
// "{id}" so label cardinality stays bounded.
func EndpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if len(s) == 36 {
			if _, err := uuid.Parse(s); err == nil {
				segments[i] = "{id}"
			}
		}
	}
	return strings.Join(segments, "/")
}
