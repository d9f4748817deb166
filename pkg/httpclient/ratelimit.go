package httpclient

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitTransport paces outgoing requests with a token bucket shared by
// every request made through the client.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newRateLimitTransport(base http.RoundTripper, perSecond float64, burst int) *rateLimitTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitTransport{
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// RoundTrip waits for a token, giving up if the request context ends first.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
