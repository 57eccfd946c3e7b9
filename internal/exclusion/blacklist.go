package exclusion

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

//go:embed db/400_blacklist.txt
var blacklist400 []byte

//go:embed db/403_blacklist.txt
var blacklist403 []byte

//go:embed db/500_blacklist.txt
var blacklist500 []byte

var defaultBlacklists = map[int][]byte{
	400: blacklist400,
	403: blacklist403,
	500: blacklist500,
}

// BlacklistFilter hides responses whose status is known to be a
// generic answer for a fixed set of paths, keyed by status code. The
// lists ship embedded under db/<status>_blacklist.txt.
type BlacklistFilter struct {
	byStatus map[int][]string
}

// NewBlacklistFilter loads the bundled blacklists for every status in
// statuses (defaults to 400, 403, 500 when statuses is empty).
func NewBlacklistFilter(statuses []int) *BlacklistFilter {
	if len(statuses) == 0 {
		statuses = []int{400, 403, 500}
	}
	f := &BlacklistFilter{byStatus: make(map[int][]string)}
	for _, status := range statuses {
		data, ok := defaultBlacklists[status]
		if !ok {
			continue
		}
		f.byStatus[status] = parseBlacklist(data)
	}
	return f
}

func parseBlacklist(data []byte) []string {
	var entries []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, strings.TrimPrefix(line, "/"))
	}
	return entries
}

func (f *BlacklistFilter) Name() string { return "blacklist" }

func (f *BlacklistFilter) Reject(resp *httpclient.Response, requestPath string) bool {
	entries, ok := f.byStatus[resp.Status]
	if !ok {
		return false
	}
	trimmed := strings.TrimPrefix(requestPath, "/")
	for _, e := range entries {
		if strings.HasSuffix(trimmed, e) {
			return true
		}
	}
	return false
}
