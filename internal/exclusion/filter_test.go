package exclusion

import (
	"testing"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

func resp(status int, body string) *httpclient.Response {
	return httpclient.NewResponse("x", status, nil, body, "")
}

func TestStatusFilterExclude(t *testing.T) {
	f := NewStatusFilter(nil, []int{404})
	if !f.Reject(resp(404, ""), "x") {
		t.Error("expected 404 to be rejected")
	}
	if f.Reject(resp(200, ""), "x") {
		t.Error("expected 200 to pass")
	}
}

func TestStatusFilterInclude(t *testing.T) {
	f := NewStatusFilter([]int{200}, nil)
	if f.Reject(resp(200, ""), "x") {
		t.Error("expected 200 to pass when included")
	}
	if !f.Reject(resp(301, ""), "x") {
		t.Error("expected 301 to be rejected when not included")
	}
}

func TestSizeFilterExactAndRange(t *testing.T) {
	f := NewSizeFilter([]int64{5}, 2, 10)
	if !f.Reject(resp(200, "12345"), "x") {
		t.Error("expected exact size match to be rejected")
	}
	if !f.Reject(resp(200, "1"), "x") {
		t.Error("expected below-min size to be rejected")
	}
	if !f.Reject(resp(200, "12345678901"), "x") {
		t.Error("expected above-max size to be rejected")
	}
	if f.Reject(resp(200, "abcd"), "x") {
		t.Error("expected in-range, non-exact size to pass")
	}
}

func TestTextFilter(t *testing.T) {
	f := NewTextFilter([]string{"not found"})
	if !f.Reject(resp(200, "page not found here"), "x") {
		t.Error("expected needle match to be rejected")
	}
	if f.Reject(resp(200, "all good"), "x") {
		t.Error("expected no-match body to pass")
	}
}

func TestRegexFilter(t *testing.T) {
	f, err := NewRegexFilter(`error \d+`)
	if err != nil {
		t.Fatalf("NewRegexFilter: %v", err)
	}
	if !f.Reject(resp(200, "error 42 occurred"), "x") {
		t.Error("expected regex match to be rejected")
	}
}

func TestRedirectFilterSubstring(t *testing.T) {
	f := NewRedirectFilter("/login")
	r := httpclient.NewResponse("x", 302, nil, "", "/login?next=/admin")
	if !f.Reject(r, "x") {
		t.Error("expected redirect substring match to be rejected")
	}
}

func TestBlacklistFilter(t *testing.T) {
	f := NewBlacklistFilter([]int{403})
	if !f.Reject(resp(403, ""), "cgi-bin") {
		t.Error("expected cgi-bin on 403 to be blacklisted")
	}
	if f.Reject(resp(403, ""), "some/real/admin/panel") {
		t.Error("expected an unrelated path not to be blacklisted")
	}
}

func TestFrequencyFilterThreshold(t *testing.T) {
	table := NewFrequencyTable()
	f := NewFrequencyFilter(table, 2)
	r := resp(200, "same body")
	if f.Reject(r, "x") {
		t.Error("expected first occurrence to pass before any increments")
	}
	table.Increment(r.Fingerprint())
	if f.Reject(r, "x") {
		t.Error("expected to pass below threshold")
	}
	table.Increment(r.Fingerprint())
	if !f.Reject(r, "x") {
		t.Error("expected to be rejected once threshold is reached")
	}
}

func TestChainAppliesInOrderAndRecordsFrequency(t *testing.T) {
	c := NewChain(nil)
	c.Add(NewStatusFilter(nil, []int{404}))

	rejected, name := c.Apply(resp(404, ""), "x")
	if !rejected || name != "status" {
		t.Errorf("Apply(404) = %v, %q; want true, status", rejected, name)
	}

	ok := resp(200, "fine")
	rejected, _ = c.Apply(ok, "x")
	if rejected {
		t.Fatal("expected 200 to pass the chain")
	}
	if c.Frequency().Count(ok.Fingerprint()) != 1 {
		t.Error("expected a surviving response to be recorded in the frequency table")
	}
}
