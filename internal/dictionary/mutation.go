package dictionary

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	versionPattern = regexp.MustCompile(`v(\d+)`)
	numberPattern  = regexp.MustCompile(`(\d+)`)
)

var backupSuffixes = []string{".bak", ".old", "~", ".swp", ".tmp"}

var extensionSwaps = map[string]string{
	".php":  ".phps",
	".phps": ".php",
	".asp":  ".aspx",
	".aspx": ".asp",
	".jsp":  ".jspx",
	".jspx": ".jsp",
}

var debugSubpaths = []string{"debug", "test", "admin"}

// Mutate proposes additional candidates derived from an already
// case-folded candidate: version/number bumps, backup-file suffixes,
// sibling-language extension swaps, and common debug/test/admin
// subpaths. Runs after case folding and before deduplication, so every
// mutated variant passes the same uniqueness gate as its origin.
func Mutate(p string) []string {
	var out []string

	if loc := versionPattern.FindStringSubmatchIndex(p); loc != nil {
		out = append(out, bumpNumber(p, loc)...)
	} else if loc := numberPattern.FindStringSubmatchIndex(p); loc != nil {
		out = append(out, bumpNumber(p, loc)...)
	}

	for _, suf := range backupSuffixes {
		out = append(out, p+suf)
	}

	for from, to := range extensionSwaps {
		if strings.HasSuffix(p, from) {
			out = append(out, strings.TrimSuffix(p, from)+to)
		}
	}

	if !strings.HasSuffix(p, "/") {
		for _, sub := range debugSubpaths {
			out = append(out, p+"/"+sub)
		}
	}

	return out
}

// bumpNumber takes a FindStringSubmatchIndex match on the numeric group
// and emits the string with that number incremented and, when positive,
// decremented.
func bumpNumber(p string, loc []int) []string {
	start, end := loc[2], loc[3]
	n, err := strconv.Atoi(p[start:end])
	if err != nil {
		return nil
	}
	out := []string{p[:start] + strconv.Itoa(n+1) + p[end:]}
	if n > 0 {
		out = append(out, p[:start]+strconv.Itoa(n-1)+p[end:])
	}
	return out
}
