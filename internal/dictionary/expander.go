package dictionary

import (
	"regexp"
	"strings"
)

// extensionTag is the wordlist substitution token replaced once per
// configured extension.
const extensionTag = "%EXT%"

// extensionTagPattern matches extensionTag in any letter case.
var extensionTagPattern = regexp.MustCompile("(?i)" + regexp.QuoteMeta(extensionTag))

// extensionRecognitionRegex identifies lines that already look like they
// end in a file extension, so extension overwriting only fires on lines
// that plausibly have one to overwrite.
var extensionRecognitionRegex = regexp.MustCompile(`\.[a-zA-Z0-9]{1,8}$`)

// excludeOverwriteExtensions lists suffixes extension overwriting must
// never touch: markup extensions are rarely paired with a sibling
// backend extension.
var excludeOverwriteExtensions = []string{".html", ".htm"}

// expandLine turns one raw wordlist line into zero or more candidates:
// cleanup, %EXT% substitution, forced/overwritten extensions, case
// folding. Candidates are not yet deduplicated against the whole
// sequence -- the caller owns that gate.
func expandLine(raw string, cfg Config) []string {
	line := strings.TrimSpace(raw)
	line = strings.TrimPrefix(line, "/")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	for _, ext := range cfg.ExcludeExtensions {
		if ext != "" && strings.HasSuffix(line, ext) {
			return nil
		}
	}

	var out []string
	if containsExtTag(line) {
		for _, ext := range cfg.Extensions {
			out = append(out, extensionTagPattern.ReplaceAllLiteralString(line, strings.TrimPrefix(ext, ".")))
		}
		// %EXT% expansion stops further processing on this line -- no
		// forced/overwritten extension, no bare fallback.
		return applyCaseToAll(out, cfg)
	}

	out = append(out, line)
	if !cfg.IsBlacklist {
		if cfg.ForceExtensions && len(cfg.Extensions) > 0 && !strings.Contains(line, ".") && !strings.HasSuffix(line, "/") {
			out = append(out, line+"/")
			for _, ext := range cfg.Extensions {
				out = append(out, line+"."+strings.TrimPrefix(ext, "."))
			}
		}
		if cfg.OverwriteExtensions && canOverwriteExtension(line, cfg) {
			base := line
			if idx := strings.Index(line, "."); idx >= 0 {
				base = line[:idx]
			}
			for _, ext := range cfg.Extensions {
				out = append(out, base+"."+strings.TrimPrefix(ext, "."))
			}
		}
	}

	return applyCaseToAll(out, cfg)
}

func containsExtTag(line string) bool {
	return strings.Contains(strings.ToUpper(line), strings.ToUpper(extensionTag))
}

func canOverwriteExtension(line string, cfg Config) bool {
	if strings.ContainsAny(line, "?#") {
		return false
	}
	for _, ext := range cfg.Extensions {
		if strings.HasSuffix(line, "."+strings.TrimPrefix(ext, ".")) {
			return false
		}
	}
	for _, excl := range excludeOverwriteExtensions {
		if strings.HasSuffix(line, excl) {
			return false
		}
	}
	return extensionRecognitionRegex.MatchString(line)
}

func applyCaseToAll(candidates []string, cfg Config) []string {
	if cfg.IsBlacklist {
		return candidates
	}
	for i, c := range candidates {
		candidates[i] = applyCase(c, cfg)
	}
	return candidates
}

// applyCase folds candidate case. Only one mode is active at a time;
// precedence is lowercase > uppercase > capitalize.
func applyCase(s string, cfg Config) string {
	switch {
	case cfg.Lowercase:
		return strings.ToLower(s)
	case cfg.Uppercase:
		return strings.ToUpper(s)
	case cfg.Capitalization:
		return capitalizeSegments(s)
	default:
		return s
	}
}

// capitalizeSegments title-cases each '/'-delimited segment, leaving the
// separators and extensions untouched.
func capitalizeSegments(s string) string {
	segments := strings.Split(s, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		r := []rune(seg)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		segments[i] = string(r)
	}
	return strings.Join(segments, "/")
}
