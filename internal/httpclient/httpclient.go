// Package httpclient constructs the HTTP clients used by storage backends.
// It deliberately sets no client-level timeout: timeout policy belongs to
// callers and their contexts, not to this layer.
package httpclient

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// New returns the default HTTP client for backend requests.
func New() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// RateLimited wraps rt so that round trips are paced at rps requests per
// second. Waiting respects the request context.
func RateLimited(rt http.RoundTripper, rps float64) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedTransport{
		next:    rt,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type rateLimitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
