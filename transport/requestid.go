package transport

import (
	"net/http"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags outgoing requests with a fresh X-Request-ID unless the
// caller already set one.
type RequestID struct {
	Base http.RoundTripper
}

func (r *RequestID) RoundTrip(req *http.Request) (*http.Response, error) {
	base := r.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req.Header.Get(RequestIDHeader) != "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set(RequestIDHeader, uuid.New().String())
	return base.RoundTrip(clone)
}
