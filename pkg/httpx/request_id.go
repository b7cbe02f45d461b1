package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/libris/pkg/idx"
)

// RequestIDHeader carries the correlation ID for a single outbound request.
const RequestIDHeader = "X-Request-ID"

// RequestIDTransport stamps every outbound request with a fresh ULID unless
// the caller already set a valid one. Retries of the same logical call reuse
// the ID.
type RequestIDTransport struct {
	Base http.RoundTripper
}

func (t *RequestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, err := idx.Parse(req.Header.Get(RequestIDHeader)); err != nil {
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, idx.New().String())
	}
	return base(t.Base).RoundTrip(req)
}

// Chain composes the client transports, outermost first: request ID, rate
// limiting, then whatever wrap adds (logging in the app) around base.
func Chain(rt http.RoundTripper, limit RateLimitConfig, wrap func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	rt = base(rt)
	if wrap != nil {
		rt = wrap(rt)
	}
	return &RequestIDTransport{Base: NewRateLimitedTransport(rt, limit)}
}
