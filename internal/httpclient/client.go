package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	iterChunkSize   = 4096
	maxResponseSize = 10 * 1024 * 1024
	retryBackoff    = 200 * time.Millisecond
)

// Options configures a Client. RateLimit is a global token-bucket cap
// in requests/second across all workers (0 disables limiting).
type Options struct {
	Method              string
	Headers             map[string]string
	UserAgent           string
	Proxy               string
	FollowRedirects     bool
	Timeout             time.Duration
	MaxRetries          int
	InsecureSkipVerify  bool
	MaxIdleConnsPerHost int
	RateLimit           float64
}

// Client is a single shared *http.Client plus the
// retry and rate-limiting policy every worker goroutine funnels
// through. Safe for concurrent use.
type Client struct {
	mu      sync.RWMutex
	http    *http.Client
	base    *url.URL
	opts    Options
	limiter *rate.Limiter
}

// NewClient builds a Client targeting base.
func NewClient(base string, opts Options) (*Client, error) {
	c := &Client{opts: opts}
	if err := c.SetURL(base); err != nil {
		return nil, err
	}

	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
		DialContext:         (&net.Dialer{Timeout: opts.Timeout}).DialContext,
		MaxIdleConns:        opts.MaxIdleConnsPerHost,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	c.http = &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
	if !opts.FollowRedirects {
		c.http.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return c, nil
}

// SetURL repoints the client at a new base target, used when scanning
// multiple targets in sequence (-l/--cidr).
func (c *Client) SetURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid target URL %q: %w", base, err)
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c.mu.Lock()
	c.base = u
	c.mu.Unlock()
	return nil
}

// BaseURL returns the client's current target.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base.String()
}

// Request issues one request for path, retrying transient failures up
// to MaxRetries times with a fixed backoff. hostOverride, when
// non-empty, sets the Host header in place of the base URL's host; the
// fuzzer passes its Config.HostOverride, which the runner leaves empty.
func (c *Client) Request(ctx context.Context, path, hostOverride string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newRequestError(path, err)
		}
	}

	var lastErr error
	attempts := c.opts.MaxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := c.doOnce(ctx, path, hostOverride)
		if err == nil {
			return resp, nil
		}
		reqErr := newRequestError(path, err)
		lastErr = reqErr
		if !reqErr.IsTransient() || attempt == attempts-1 {
			return nil, reqErr
		}
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return nil, newRequestError(path, ctx.Err())
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, path, hostOverride string) (*Response, error) {
	c.mu.RLock()
	base := c.base
	method := c.opts.Method
	headers := c.opts.Headers
	ua := c.opts.UserAgent
	c.mu.RUnlock()

	if method == "" {
		method = http.MethodGet
	}
	if ua == "" {
		ua = "dirsearch-go"
	}

	target := base.String() + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ua)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if hostOverride != "" {
		req.Host = hostOverride
	}

	var history []string
	httpClient := *c.http
	httpClient.CheckRedirect = func(r *http.Request, via []*http.Request) error {
		history = append(history, r.URL.String())
		if !c.opts.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= 10 {
			return http.ErrUseLastResponse
		}
		return nil
	}

	start := time.Now()
	httpResp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, truncated, err := readBounded(httpResp)
	if err != nil {
		return nil, err
	}
	_ = truncated
	elapsed := time.Since(start)

	content := string(body)
	redirect := ""
	if httpResp.StatusCode >= 300 && httpResp.StatusCode < 400 {
		redirect = normalizeRedirect(httpResp.Header.Get("Location"), base)
	}

	resp := &Response{
		path:      path,
		URL:       target,
		Status:    httpResp.StatusCode,
		Headers:   httpResp.Header,
		Redirect:  redirect,
		History:   history,
		Body:      body,
		Content:   content,
		Timestamp: start,
		Duration:  elapsed,
	}
	resp.fingerprint = computeFingerprint(resp.Status, content, path)
	return resp, nil
}

// readBounded streams the response body in fixed chunks, stopping once
// maxResponseSize is reached or the payload is detected to be binary,
// so a single huge or non-text hit can't blow out memory for the rest
// of the scan.
func readBounded(resp *http.Response) (body []byte, truncated bool, err error) {
	ct := resp.Header.Get("Content-Type")
	buf := make([]byte, 0, iterChunkSize)
	chunk := make([]byte, iterChunkSize)
	checkedBinary := false

	for {
		n, rerr := resp.Body.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if !checkedBinary && len(buf) >= 512 {
				checkedBinary = true
				if looksBinary(ct, buf) {
					return buf, true, nil
				}
			}
			if len(buf) >= maxResponseSize {
				return buf[:maxResponseSize], true, nil
			}
		}
		if rerr == io.EOF {
			return buf, false, nil
		}
		if rerr != nil {
			return nil, false, rerr
		}
	}
}

func looksBinary(contentType string, sample []byte) bool {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "text/"),
		strings.Contains(ct, "json"),
		strings.Contains(ct, "xml"),
		strings.Contains(ct, "javascript"):
		return false
	}
	detected := http.DetectContentType(sample)
	if strings.HasPrefix(detected, "text/") || strings.Contains(detected, "xml") {
		return false
	}
	return bytes.IndexByte(sample, 0) >= 0
}
