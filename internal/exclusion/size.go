package exclusion

import "github.com/jmartin-dev/dirsearch-go/internal/httpclient"

// SizeFilter excludes responses matching an exact body size or falling
// outside a configured [min,max] range.
type SizeFilter struct {
	sizes    map[int64]struct{}
	min, max int64
	hasMin   bool
	hasMax   bool
}

// NewSizeFilter builds a size predicate. min/max of -1 disables that
// bound.
func NewSizeFilter(excludeSizes []int64, min, max int64) *SizeFilter {
	f := &SizeFilter{sizes: make(map[int64]struct{}, len(excludeSizes))}
	for _, s := range excludeSizes {
		f.sizes[s] = struct{}{}
	}
	if min >= 0 {
		f.min, f.hasMin = min, true
	}
	if max >= 0 {
		f.max, f.hasMax = max, true
	}
	return f
}

func (f *SizeFilter) Name() string { return "size" }

func (f *SizeFilter) Reject(resp *httpclient.Response, _ string) bool {
	if _, ok := f.sizes[resp.Length()]; ok {
		return true
	}
	if f.hasMin && resp.Length() < f.min {
		return true
	}
	if f.hasMax && resp.Length() > f.max {
		return true
	}
	return false
}
