package exclusion

import (
	"regexp"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

// RegexFilter hides responses whose body matches a compiled pattern.
type RegexFilter struct {
	pattern *regexp.Regexp
}

// NewRegexFilter compiles expr and returns a predicate over response
// bodies.
func NewRegexFilter(expr string) (*RegexFilter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RegexFilter{pattern: re}, nil
}

func (f *RegexFilter) Name() string { return "regex" }

func (f *RegexFilter) Reject(resp *httpclient.Response, _ string) bool {
	return f.pattern.MatchString(resp.Content)
}
