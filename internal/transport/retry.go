package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// DefaultMaxAttempts bounds the total number of attempts per request.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed pause between consecutive attempts.
	DefaultRetryDelay = 2000 * time.Millisecond

	serverErrorStartCode = 500
)

var (
	meter           = otel.Meter("finbridge/transport")
	attemptTotal, _ = meter.Int64Counter("transport.request.attempts", metric.WithDescription("Total request attempts by outcome"))
	retryTotal, _   = meter.Int64Counter("transport.request.retries", metric.WithDescription("Total retried attempts"))
)

// RetryTransport retries a request when the server answers 5xx or the
// transport fails, with a fixed delay between attempts. Responses below 500
// (client errors included) return immediately on any attempt. Context
// cancellation during the delay aborts the request; it is never retried.
type RetryTransport struct {
	Next http.RoundTripper

	// MaxAttempts and Delay default to DefaultMaxAttempts and
	// DefaultRetryDelay when zero.
	MaxAttempts int
	Delay       time.Duration
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	maxAttempts := t.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	delay := t.Delay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	ctx := req.Context()

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			retryTotal.Add(ctx, 1)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("failed to rewind request body for retry: %w", err)
				}
				req.Body = body
			}
		}

		resp, lastErr = t.Next.RoundTrip(req)
		if lastErr == nil {
			if resp.StatusCode < serverErrorStartCode {
				attemptTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
				return resp, nil
			}
			attemptTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "server_error")))
		} else {
			resp = nil
			attemptTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "transport_error")))
		}

		if attempt+1 == maxAttempts {
			break
		}

		// The 5xx response is abandoned in favor of a retry; release it.
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	// Exhausted: surface the last 5xx response if one was obtained,
	// otherwise the last transport error.
	if resp != nil {
		return resp, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("request failed with no response")
}
