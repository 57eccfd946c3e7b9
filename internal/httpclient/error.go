package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// RequestError wraps a failed request with the path it was attempting
// and whether it is worth retrying.
type RequestError struct {
	Path      string
	Err       error
	transient bool
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Path, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsTransient reports whether the request is likely to succeed if
// retried: connection resets, timeouts, DNS hiccups. 4xx/5xx responses
// are never transient -- they are successful requests with an
// unwelcome answer, not request errors at all.
func (e *RequestError) IsTransient() bool { return e.transient }

func newRequestError(path string, err error) *RequestError {
	return &RequestError{Path: path, Err: err, transient: classifyTransient(err)}
}

func classifyTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || !isPermanentNetError(err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return false
}

func isPermanentNetError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsTimeout && !dnsErr.IsTemporary
	}
	return false
}
