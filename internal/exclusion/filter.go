// Package exclusion implements user-policy response filtering:
// stateless matchers over a Response plus a content-hash frequency
// table that flags responses repeating often enough to be noise.
package exclusion

import "github.com/jmartin-dev/dirsearch-go/internal/httpclient"

// Predicate decides whether one response should be excluded from
// output. Reject must be side-effect free: frequency bookkeeping lives
// in Chain, not in any individual Predicate, so a rejected response
// never feeds the counts that cause future rejections.
type Predicate interface {
	Name() string
	Reject(resp *httpclient.Response, requestPath string) bool
}

// Chain runs every configured Predicate and, only once none of them
// reject a response, records it in the shared frequency table so a
// later, otherwise-unremarkable response that recurs too often gets
// caught by FrequencyFilter.
type Chain struct {
	predicates []Predicate
	freq       *FrequencyTable
}

// NewChain builds an empty chain backed by freq (create one with
// NewFrequencyTable and share it with any FrequencyFilter added here).
func NewChain(freq *FrequencyTable) *Chain {
	if freq == nil {
		freq = NewFrequencyTable()
	}
	return &Chain{freq: freq}
}

// Add appends a predicate to the chain, checked in the order added.
func (c *Chain) Add(p Predicate) { c.predicates = append(c.predicates, p) }

// Frequency returns the chain's shared table, for wiring into a
// FrequencyFilter added later.
func (c *Chain) Frequency() *FrequencyTable { return c.freq }

// Apply reports whether resp should be excluded, and by which
// predicate. A response that survives every predicate is recorded in
// the frequency table before being let through.
func (c *Chain) Apply(resp *httpclient.Response, requestPath string) (bool, string) {
	for _, p := range c.predicates {
		if p.Reject(resp, requestPath) {
			return true, p.Name()
		}
	}
	c.freq.Increment(resp.Fingerprint())
	return false, ""
}
