package baseline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

// Default test affixes calibration always checks in addition to
// whatever the user configured. Servers commonly special-case
// trailing-slash requests, so the "/" suffix is always probed.
var (
	defaultTestPrefixes = []string{}
	defaultTestSuffixes = []string{"/"}
)

// SetOptions configures calibration for a whole scan.
type SetOptions struct {
	Prefixes            []string
	Suffixes            []string
	Extensions          []string
	ExcludeResponsePath string
	ProbeCount          int
}

// Set bundles every Scanner a scan needs: one random-wildcard baseline,
// an optional user-supplied exclude-response baseline, and one Scanner
// per prefix/suffix/extension combination actually in play, so a
// candidate is only checked against the calibrations relevant to the
// transform that produced it.
type Set struct {
	Random   *Scanner
	Custom   *Scanner
	ByPrefix map[string]*Scanner
	BySuffix map[string]*Scanner
	ByExt    map[string]*Scanner
}

// NewSet runs every calibration probe up front, before the scan
// begins.
func NewSet(ctx context.Context, client *httpclient.Client, opts SetOptions) (*Set, error) {
	n := opts.ProbeCount
	if n < 2 {
		n = 2
	}

	s := &Set{
		ByPrefix: make(map[string]*Scanner),
		BySuffix: make(map[string]*Scanner),
		ByExt:    make(map[string]*Scanner),
	}

	random, err := New(ctx, client, "dirsearch-"+wildcardMarker, "random", n)
	if err != nil {
		return nil, err
	}
	s.Random = random

	if opts.ExcludeResponsePath != "" {
		var custom *Scanner
		var err error
		if strings.Contains(opts.ExcludeResponsePath, wildcardMarker) {
			custom, err = New(ctx, client, opts.ExcludeResponsePath, "custom", n)
		} else {
			custom, err = NewStatic(ctx, client, opts.ExcludeResponsePath, "custom")
		}
		if err != nil {
			return nil, err
		}
		s.Custom = custom
	}

	for _, p := range unionDefault(opts.Prefixes, defaultTestPrefixes) {
		sc, err := New(ctx, client, p+"dirsearch-"+wildcardMarker, "prefix:"+p, n)
		if err != nil {
			return nil, fmt.Errorf("calibrating prefix %q: %w", p, err)
		}
		s.ByPrefix[p] = sc
	}
	for _, suf := range unionDefault(opts.Suffixes, defaultTestSuffixes) {
		sc, err := New(ctx, client, "dirsearch-"+wildcardMarker+suf, "suffix:"+suf, n)
		if err != nil {
			return nil, fmt.Errorf("calibrating suffix %q: %w", suf, err)
		}
		s.BySuffix[suf] = sc
	}
	for _, ext := range opts.Extensions {
		ext = strings.TrimPrefix(ext, ".")
		sc, err := New(ctx, client, "dirsearch-"+wildcardMarker+"."+ext, "ext:"+ext, n)
		if err != nil {
			return nil, fmt.Errorf("calibrating extension %q: %w", ext, err)
		}
		s.ByExt[ext] = sc
	}

	return s, nil
}

// Relevant returns every Scanner that should be consulted for path,
// based on which prefix/suffix/extension it carries.
func (s *Set) Relevant(path string) []*Scanner {
	scanners := []*Scanner{s.Random}
	if s.Custom != nil {
		scanners = append(scanners, s.Custom)
	}
	for p, sc := range s.ByPrefix {
		if strings.HasPrefix(path, p) {
			scanners = append(scanners, sc)
		}
	}
	for suf, sc := range s.BySuffix {
		if strings.HasSuffix(path, suf) {
			scanners = append(scanners, sc)
		}
	}
	for ext, sc := range s.ByExt {
		if strings.HasSuffix(path, "."+ext) {
			scanners = append(scanners, sc)
		}
	}
	return scanners
}

// CheckAll reports whether resp is unique across every relevant
// Scanner: all relevant calibrations must agree the response is
// distinguishable before it counts as a real hit.
func (s *Set) CheckAll(path string, resp *httpclient.Response) bool {
	for _, sc := range s.Relevant(path) {
		if !sc.Check(path, resp) {
			return false
		}
	}
	return true
}

// unionDefault merges configured values with the built-in defaults,
// preserving order and dropping duplicates.
func unionDefault(configured, defaults []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range append(append([]string{}, configured...), defaults...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
