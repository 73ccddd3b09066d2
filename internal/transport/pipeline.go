package transport

import (
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a whole request, retries and backoff included.
const DefaultTimeout = 15 * time.Second

// Options configures the request pipeline.
type Options struct {
	// Token is the static bearer credential attached to every request.
	Token string

	// Checker gates requests on network reachability.
	// Defaults to InterfaceChecker.
	Checker Checker

	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration

	// Base is the innermost transport. Defaults to an otelhttp-instrumented
	// http.DefaultTransport.
	Base http.RoundTripper
}

// NewClient builds an *http.Client with the fixed interceptor order:
// connectivity gate, request id, authorization, retry, transport.
// The order is load-bearing: connectivity is checked before any retry
// budget is spent, and the bearer header is attached above the retry layer
// so every retried attempt stays authorized.
func NewClient(opts Options) *http.Client {
	checker := opts.Checker
	if checker == nil {
		checker = InterfaceChecker{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := opts.Base
	if base == nil {
		base = otelhttp.NewTransport(http.DefaultTransport)
	}

	chain := &ConnectivityTransport{
		Checker: checker,
		Next: &RequestIDTransport{
			Next: &AuthTransport{
				Token: opts.Token,
				Next: &RetryTransport{
					Next: base,
				},
			},
		},
	}

	return &http.Client{
		Transport: chain,
		Timeout:   timeout,
	}
}

var (
	defaultOnce   sync.Once
	defaultClient *http.Client
)

// DefaultClient returns the process-wide pipeline client, building it on
// first use. Construction happens at most once even under concurrent calls;
// the first caller's options win and later options are ignored.
func DefaultClient(opts Options) *http.Client {
	defaultOnce.Do(func() {
		defaultClient = NewClient(opts)
	})
	return defaultClient
}
