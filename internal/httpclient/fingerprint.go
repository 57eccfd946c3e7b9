package httpclient

import (
	"crypto/md5"
	"encoding/binary"
	"html"
	"net/url"
	"strings"
)

// stripAllEncodings removes every common encoding of needle from body,
// so that a response which merely echoes the requested path back
// (common on soft-404 pages) hashes the same regardless of what path
// was requested.
func stripAllEncodings(body, needle string) string {
	if needle == "" {
		return body
	}
	variants := []string{
		needle,
		strings.Trim(needle, "/"),
		url.PathEscape(needle),
		url.QueryEscape(needle),
		html.EscapeString(needle),
		url.QueryEscape(url.QueryEscape(needle)),
	}
	out := body
	for _, v := range variants {
		if v == "" {
			continue
		}
		out = strings.ReplaceAll(out, v, "")
	}
	return out
}

func computeFingerprint(status int, content, requestPath string) [16]byte {
	stripped := stripAllEncodings(content, requestPath)
	buf := make([]byte, 4, 4+len(stripped))
	binary.BigEndian.PutUint32(buf, uint32(status))
	buf = append(buf, stripped...)
	return md5.Sum(buf)
}
