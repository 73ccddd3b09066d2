// Package transport implements the outbound request pipeline: connectivity
// gating, request tagging, bearer authorization and bounded retry, composed
// as an http.RoundTripper chain in that fixed order.
package transport

import (
	"errors"
	"net"
	"net/http"
)

// ErrNoConnection is returned when the connectivity gate aborts a request
// before any transport I/O. The http.Client wraps it in a *url.Error, so
// callers classify it with errors.Is.
var ErrNoConnection = errors.New("no internet connection")

// Checker reports current network reachability. It queries present state
// and must not block waiting for connectivity to appear.
type Checker interface {
	Online() bool
}

// InterfaceChecker reports the host online when any non-loopback interface
// is up and running.
type InterfaceChecker struct{}

func (InterfaceChecker) Online() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		if ifc.Flags&net.FlagUp != 0 && ifc.Flags&net.FlagRunning != 0 {
			return true
		}
	}
	return false
}

// ConnectivityTransport fails requests with ErrNoConnection while the
// checker reports the host offline. No transport call is attempted.
type ConnectivityTransport struct {
	Checker Checker
	Next    http.RoundTripper
}

func (t *ConnectivityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.Checker.Online() {
		return nil, ErrNoConnection
	}
	return t.Next.RoundTrip(req)
}
