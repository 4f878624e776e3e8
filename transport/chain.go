package transport

import (
	"net/http"
	"time"
)

// Middleware wraps a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base with mw. The first middleware sees the request first.
func Chain(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// WithRequestID is the Middleware form of RequestID.
func WithRequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return &RequestID{Base: next}
	}
}

// WithSession is the Middleware form of Authenticator.
func WithSession(source SessionSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return &Authenticator{Sessions: source, Base: next}
	}
}

// NewClient returns an http.Client whose requests carry a request ID and,
// while a session exists, its bearer token.
func NewClient(source SessionSource, timeout time.Duration, base http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Chain(base, WithRequestID(), WithSession(source)),
	}
}
