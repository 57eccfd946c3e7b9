package exclusion

import (
	"strings"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

// TextFilter hides responses whose body contains any of a set of
// needles.
type TextFilter struct {
	needles []string
}

// NewTextFilter builds a predicate that rejects any response whose
// body contains one of needles.
func NewTextFilter(needles []string) *TextFilter {
	return &TextFilter{needles: needles}
}

func (f *TextFilter) Name() string { return "text" }

func (f *TextFilter) Reject(resp *httpclient.Response, _ string) bool {
	for _, n := range f.needles {
		if n != "" && strings.Contains(resp.Content, n) {
			return true
		}
	}
	return false
}
