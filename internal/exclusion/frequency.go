package exclusion

import (
	"sync"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

// FrequencyTable counts how many times each response fingerprint has
// been seen among responses that survived every other predicate. The
// fingerprint is path-stripped, so a catch-all route that embeds the
// requested path still accumulates a single count.
type FrequencyTable struct {
	mu    sync.Mutex
	count map[[16]byte]int
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{count: make(map[[16]byte]int)}
}

// Increment records one more occurrence of fp and returns the new
// total.
func (t *FrequencyTable) Increment(fp [16]byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count[fp]++
	return t.count[fp]
}

// Count reports how many times fp has been recorded so far, without
// incrementing it.
func (t *FrequencyTable) Count(fp [16]byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count[fp]
}

// FrequencyFilter hides a response once its fingerprint has already
// recurred threshold times among earlier, unfiltered responses. It
// only ever sees counts accumulated by responses it did not itself
// reject.
type FrequencyFilter struct {
	table     *FrequencyTable
	threshold int
}

// NewFrequencyFilter builds a predicate backed by table, hiding a
// response once its fingerprint has occurred threshold or more times
// already. A threshold <= 0 disables the filter.
func NewFrequencyFilter(table *FrequencyTable, threshold int) *FrequencyFilter {
	return &FrequencyFilter{table: table, threshold: threshold}
}

func (f *FrequencyFilter) Name() string { return "frequency" }

func (f *FrequencyFilter) Reject(resp *httpclient.Response, _ string) bool {
	if f.threshold <= 0 {
		return false
	}
	return f.table.Count(resp.Fingerprint()) >= f.threshold
}
