// Package crawl extracts same-origin candidate paths from response
// bodies so a running scan can enqueue them as extra dictionary
// entries. Extraction is dispatched on the response's content type:
// HTML gets attribute scanning, JavaScript gets string-literal
// scanning, robots.txt gets rule parsing, and anything else gets a
// generic URL-token sweep.
package crawl

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

var (
	htmlAttrPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`),
		regexp.MustCompile(`(?i)src\s*=\s*["']([^"']+)["']`),
		regexp.MustCompile(`(?i)action\s*=\s*["']([^"']+)["']`),
	}

	// Quoted relative or absolute paths inside script source, plus bare
	// references to common static assets.
	jsPathPattern  = regexp.MustCompile(`["'` + "`" + `](/[^"'` + "`" + `\s<>]{1,512})["'` + "`" + `]`)
	jsAssetPattern = regexp.MustCompile(`["'` + "`" + `]([\w./-]+\.(?:js|css|json|map|png|gif|jpg|svg|ico|txt|xml))["'` + "`" + `]`)

	robotsRulePattern = regexp.MustCompile(`(?im)^(?:dis)?allow:\s*(\S+)`)

	// Fallback for unknown content types: anything that looks like an
	// absolute reference.
	genericURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// Extract returns deduplicated same-origin paths referenced by resp's
// body, suitable for Dictionary.AddExtra. baseURL anchors relative
// references and the same-origin check.
func Extract(resp *httpclient.Response, baseURL string) []string {
	if resp == nil || resp.Content == "" {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var refs []string
	switch {
	case isRobots(resp):
		refs = robotsRefs(resp.Content)
	case isJavaScript(resp):
		refs = scriptRefs(resp.Content)
	case isHTML(resp):
		refs = htmlRefs(resp.Content)
	default:
		refs = genericRefs(resp.Content)
	}

	return resolveSameOrigin(refs, base)
}

// ExtractPaths scans body as HTML and returns deduplicated same-origin
// paths from href, src, and action attributes. Kept as the entry point
// for callers that only hold raw bytes.
func ExtractPaths(body []byte, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	return resolveSameOrigin(htmlRefs(string(body)), base)
}

func isHTML(resp *httpclient.Response) bool {
	ct := strings.ToLower(resp.ContentType())
	return strings.Contains(ct, "html") || ct == ""
}

func isJavaScript(resp *httpclient.Response) bool {
	if strings.Contains(strings.ToLower(resp.ContentType()), "javascript") {
		return true
	}
	p := strings.ToLower(resp.FullPath())
	return strings.HasSuffix(p, ".js")
}

func isRobots(resp *httpclient.Response) bool {
	p := strings.TrimPrefix(resp.FullPath(), "/")
	return strings.EqualFold(p, "robots.txt")
}

func htmlRefs(content string) []string {
	var refs []string
	for _, re := range htmlAttrPatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if len(m) >= 2 {
				refs = append(refs, m[1])
			}
		}
	}
	return refs
}

func scriptRefs(content string) []string {
	var refs []string
	for _, m := range jsPathPattern.FindAllStringSubmatch(content, -1) {
		refs = append(refs, m[1])
	}
	for _, m := range jsAssetPattern.FindAllStringSubmatch(content, -1) {
		refs = append(refs, m[1])
	}
	return refs
}

func robotsRefs(content string) []string {
	var refs []string
	for _, m := range robotsRulePattern.FindAllStringSubmatch(content, -1) {
		rule := strings.TrimSpace(m[1])
		// Wildcard rules like /admin/* still point at a real prefix.
		rule = strings.TrimSuffix(rule, "*")
		rule = strings.TrimSuffix(rule, "$")
		if rule != "" && rule != "/" {
			refs = append(refs, rule)
		}
	}
	return refs
}

func genericRefs(content string) []string {
	return genericURLPattern.FindAllString(content, -1)
}

// resolveSameOrigin resolves each raw reference against base, drops
// cross-origin and non-HTTP targets, and returns the remaining paths
// stripped of leading/trailing slashes, deduplicated in order.
func resolveSameOrigin(refs []string, base *url.URL) []string {
	seen := make(map[string]struct{})
	var paths []string

	for _, raw := range refs {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		lower := strings.ToLower(raw)
		if strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") ||
			strings.HasPrefix(lower, "data:") {
			continue
		}

		ref, err := url.Parse(raw)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != "" && resolved.Host != base.Host {
			continue
		}

		path := strings.TrimPrefix(strings.TrimRight(resolved.Path, "/"), "/")
		if path == "" {
			continue
		}
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	return paths
}
