package transport

import (
	"net/http"

	"github.com/google/uuid"
)

// AuthTransport adds an Authorization header with a static bearer token to
// every outbound request. It sits above the retry layer, so the header is
// present on every retried attempt. This step cannot fail.
type AuthTransport struct {
	Token string
	Next  http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.Token)
	return t.Next.RoundTrip(clone)
}

// RequestIDTransport tags each outbound request with an X-Request-Id for
// correlating client logs with server-side traces. An id already present on
// the request is kept.
type RequestIDTransport struct {
	Next http.RoundTripper
}

func (t *RequestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("X-Request-Id") != "" {
		return t.Next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Request-Id", uuid.NewString())
	return t.Next.RoundTrip(clone)
}
