// Package httpclient issues the scan's HTTP requests: a single
// shared client that issues requests for candidate paths, retries
// transient failures, tracks redirect history, and bounds how much of a
// response body it reads.
package httpclient

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Response is the immutable result of one completed request. The body
// fingerprint is computed once at construction; Equal and ContentType
// are computed on each call. Nothing downstream mutates it.
type Response struct {
	path      string
	URL       string
	Status    int
	Headers   http.Header
	Redirect  string
	History   []string
	Body      []byte
	Content   string
	Timestamp time.Time
	Duration  time.Duration

	fingerprint [16]byte
}

// FullPath returns the request path this Response was produced for.
func (r *Response) FullPath() string { return r.path }

// Length returns the response body size in bytes.
func (r *Response) Length() int64 { return int64(len(r.Body)) }

// ContentType returns the MIME type portion of the Content-Type header,
// with any charset/boundary parameters stripped.
func (r *Response) ContentType() string {
	ct := r.Headers.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
	}
	return mt
}

// Equal reports whether two responses are indistinguishable: same
// status, same redirect target, same body bytes.
func (r *Response) Equal(o *Response) bool {
	if o == nil {
		return false
	}
	return r.Status == o.Status && r.Redirect == o.Redirect && string(r.Body) == string(o.Body)
}

// NewResponse builds a Response from already-known values instead of
// an actual round trip: used in tests for packages downstream of
// httpclient.
func NewResponse(path string, status int, headers http.Header, body, redirect string) *Response {
	if headers == nil {
		headers = http.Header{}
	}
	r := &Response{
		path:     path,
		Status:   status,
		Headers:  headers,
		Redirect: redirect,
		Body:     []byte(body),
		Content:  body,
	}
	r.fingerprint = computeFingerprint(status, body, path)
	return r
}

// Fingerprint returns the content hash used for soft-404 clustering:
// MD5 of the status code plus the body with every common encoding of
// the request path stripped out, so a reflected path does not defeat
// frequency-based exclusion.
func (r *Response) Fingerprint() [16]byte { return r.fingerprint }

func normalizeRedirect(location string, base *url.URL) string {
	if location == "" {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(u).String()
}
