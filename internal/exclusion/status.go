package exclusion

import "github.com/jmartin-dev/dirsearch-go/internal/httpclient"

// StatusFilter includes or excludes responses by HTTP status code.
type StatusFilter struct {
	include map[int]struct{}
	exclude map[int]struct{}
}

// NewStatusFilter builds a status predicate. When include is non-empty
// it takes precedence: only those codes survive. Otherwise exclude
// removes the listed codes.
func NewStatusFilter(include, exclude []int) *StatusFilter {
	f := &StatusFilter{
		include: make(map[int]struct{}, len(include)),
		exclude: make(map[int]struct{}, len(exclude)),
	}
	for _, c := range include {
		f.include[c] = struct{}{}
	}
	for _, c := range exclude {
		f.exclude[c] = struct{}{}
	}
	return f
}

func (f *StatusFilter) Name() string { return "status" }

func (f *StatusFilter) Reject(resp *httpclient.Response, _ string) bool {
	if len(f.include) > 0 {
		_, ok := f.include[resp.Status]
		return !ok
	}
	if len(f.exclude) > 0 {
		_, ok := f.exclude[resp.Status]
		return ok
	}
	return false
}
