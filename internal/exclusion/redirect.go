package exclusion

import (
	"regexp"
	"strings"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

// RedirectFilter hides responses redirecting somewhere matching a
// substring or, when the configured value compiles as one, a regular
// expression.
type RedirectFilter struct {
	substr  string
	pattern *regexp.Regexp
}

// NewRedirectFilter builds a predicate over the Location a response
// redirects to. If expr compiles as a regexp it is used as one;
// otherwise it is matched as a plain substring.
func NewRedirectFilter(expr string) *RedirectFilter {
	f := &RedirectFilter{substr: expr}
	if re, err := regexp.Compile(expr); err == nil {
		f.pattern = re
	}
	return f
}

func (f *RedirectFilter) Name() string { return "redirect" }

func (f *RedirectFilter) Reject(resp *httpclient.Response, _ string) bool {
	if resp.Redirect == "" {
		return false
	}
	if f.pattern != nil {
		return f.pattern.MatchString(resp.Redirect)
	}
	return strings.Contains(resp.Redirect, f.substr)
}
