// Package reqparse turns a raw captured HTTP request (e.g. a Burp
// Suite export) into a scan target: base URL, method, and the headers
// needed to replay an authenticated session.
package reqparse

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	shapehttp "github.com/shapestone/shape-http/pkg/http"
)

// ParsedRequest holds the extracted data from a raw HTTP request file.
type ParsedRequest struct {
	Method  string
	URL     string // scheme://host reconstructed from the request
	Headers map[string]string
}

// ParseFile reads a raw HTTP request file and extracts the target URL,
// method, and all headers including cookies. Burp exports are often
// imperfect wire format (bare LF line endings, HTTP/2 version tag,
// truncated body), so parsing is lenient: whatever parses is used.
func ParseFile(path string) (*ParsedRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening request file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("request file %s is empty", path)
	}

	result := shapehttp.UnmarshalLenient(data)
	req := result.Request
	if req == nil || req.Method == "" {
		return nil, fmt.Errorf("request file %s does not contain an HTTP request", path)
	}

	headers := make(map[string]string, len(req.Headers))
	for _, h := range req.Headers {
		if _, ok := headers[h.Key]; !ok {
			headers[h.Key] = h.Value
		}
	}

	base, err := baseURL(req, headers)
	// An absolute-form request-target names its own scheme and host;
	// read it from the raw request line rather than the parsed Path.
	if line, _, _ := strings.Cut(strings.TrimLeft(string(data), "\r\n"), "\n"); len(strings.Fields(line)) >= 2 {
		if u, perr := url.Parse(strings.Fields(line)[1]); perr == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			base, err = u.Scheme+"://"+u.Host, nil
		}
	}
	if err != nil {
		return nil, err
	}

	return &ParsedRequest{
		Method:  req.Method,
		URL:     base,
		Headers: headers,
	}, nil
}

// baseURL reconstructs scheme://host from the parsed request. The
// request-target may be origin-form (needs the Host header) or
// absolute-form (carries its own host).
func baseURL(req *shapehttp.Request, headers map[string]string) (string, error) {
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		u, err := url.Parse(req.Path)
		if err != nil {
			return "", fmt.Errorf("invalid URL in request line: %w", err)
		}
		return u.Scheme + "://" + u.Host, nil
	}

	host := headers["Host"]
	if host == "" {
		host = req.Headers.Get("Host")
	}
	if host == "" {
		return "", fmt.Errorf("request file missing Host header")
	}

	scheme := ""
	if scheme == "" {
		// HTTP/2 in a Burp export implies TLS. For HTTP/1.x the wire
		// format doesn't say, so default to https unless port 80 is
		// explicit.
		scheme = "https"
		if strings.HasPrefix(strings.ToUpper(req.Version), "HTTP/1") && strings.HasSuffix(host, ":80") {
			scheme = "http"
		}
	}

	return scheme + "://" + host, nil
}
