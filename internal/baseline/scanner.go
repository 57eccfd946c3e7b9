// Package baseline implements wildcard calibration: probing a target
// with paths that cannot legitimately exist, then using those probe
// responses as references to recognize and reject the server's
// catch-all behavior during the real scan.
package baseline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

// wildcardMarker is the substitution token embedded in a probe path
// template and replaced with a random token per probe.
const wildcardMarker = "***"

// Reference is one stored calibration response: either a literal
// single-fetch baseline or a response produced by substituting a
// random token into probePath.
type Reference struct {
	Status     int
	Redirect   string
	Content    string
	ProbeToken string
}

// Scanner holds the references collected for one probe template and
// the content fragments ("dynamic parts") that varied between two
// probes and must be masked out before comparing against a live
// response.
type Scanner struct {
	Label        string
	references   []Reference
	dynamicParts []string
}

// New issues n >= 2 probes against a template containing wildcardMarker,
// each substituting a fresh random token, and builds a Scanner able to
// recognize the resulting wildcard response. When the probes disagree
// on status code, every probe response, duplicates included, is kept as
// its own reference instead of being diffed together.
func New(ctx context.Context, client *httpclient.Client, probePath, label string, n int) (*Scanner, error) {
	if n < 2 {
		n = 2
	}

	var refs []Reference
	for i := 0; i < n; i++ {
		token := randomToken()
		path := strings.ReplaceAll(probePath, wildcardMarker, token)
		resp, err := client.Request(ctx, path, "")
		if err != nil {
			continue
		}
		refs = append(refs, Reference{
			Status:     resp.Status,
			Redirect:   resp.Redirect,
			Content:    resp.Content,
			ProbeToken: token,
		})
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("baseline %s: every calibration probe failed", label)
	}

	s := &Scanner{Label: label}

	sameStatus := true
	for _, r := range refs[1:] {
		if r.Status != refs[0].Status {
			sameStatus = false
			break
		}
	}

	if !sameStatus || len(refs) < 2 {
		s.references = refs
		return s, nil
	}

	s.references = []Reference{refs[0]}
	s.dynamicParts = diffParts(refs[0].Content, refs[1].Content)
	return s, nil
}

// NewStatic builds a Scanner from a single fixed-path fetch, used for
// exclude_response templates that carry no wildcard marker.
func NewStatic(ctx context.Context, client *httpclient.Client, path, label string) (*Scanner, error) {
	resp, err := client.Request(ctx, path, "")
	if err != nil {
		return nil, fmt.Errorf("baseline %s: %w", label, err)
	}
	return &Scanner{
		Label: label,
		references: []Reference{{
			Status:   resp.Status,
			Redirect: resp.Redirect,
			Content:  resp.Content,
		}},
	}, nil
}

// Check reports whether resp is distinguishable from every stored
// reference (true => unique, a real hit worth reporting). It returns
// false the moment a reference fully matches on status, redirect target
// (after substituting the live path back into the reference's probe
// token) and masked content.
func (s *Scanner) Check(path string, resp *httpclient.Response) bool {
	for _, ref := range s.references {
		if resp.Status != ref.Status {
			continue
		}

		wantRedirect := ref.Redirect
		if ref.ProbeToken != "" {
			wantRedirect = strings.Replace(ref.Redirect, ref.ProbeToken, path, 1)
		}
		if resp.Redirect != wantRedirect {
			continue
		}

		liveMasked := maskDynamic(resp.Content, s.dynamicParts, path)
		refMasked := maskDynamic(ref.Content, s.dynamicParts, ref.ProbeToken)
		if liveMasked == refMasked {
			return false
		}
	}
	return true
}

// maskDynamic strips the echoed request token and every known dynamic
// fragment from content so two otherwise-identical wildcard responses
// compare equal despite embedding different random tokens.
func maskDynamic(content string, dynamicParts []string, token string) string {
	out := content
	if token != "" {
		out = strings.ReplaceAll(out, token, "")
	}
	for _, part := range dynamicParts {
		if part == "" {
			continue
		}
		out = strings.ReplaceAll(out, part, "")
	}
	return out
}

// diffParts returns the line-level fragments present in a but not in b
// (or vice versa), used to mask content that legitimately varies
// between otherwise-identical wildcard responses (timestamps, request
// IDs) without masking the fixed boilerplate around them.
func diffParts(a, b string) []string {
	linesA := strings.Split(a, "\n")
	linesB := strings.Split(b, "\n")
	setA := make(map[string]struct{}, len(linesA))
	setB := make(map[string]struct{}, len(linesB))
	for _, l := range linesA {
		setA[l] = struct{}{}
	}
	for _, l := range linesB {
		setB[l] = struct{}{}
	}

	var parts []string
	seen := make(map[string]struct{})
	add := func(l string) {
		if l == "" {
			return
		}
		if _, dup := seen[l]; dup {
			return
		}
		seen[l] = struct{}{}
		parts = append(parts, l)
	}
	for _, l := range linesA {
		if _, ok := setB[l]; !ok {
			add(l)
		}
	}
	for _, l := range linesB {
		if _, ok := setA[l]; !ok {
			add(l)
		}
	}
	return parts
}

func randomToken() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "dirsearch-probe-" + hex.EncodeToString(buf)
}
