package httpclient

import "testing"

func TestStripAllEncodingsRemovesPlainAndEscapedPath(t *testing.T) {
	body := "not found: /admin%20panel and also admin panel"
	got := stripAllEncodings(body, "admin panel")
	if got == body {
		t.Fatal("expected body to change after stripping needle")
	}
	for _, v := range []string{"admin panel", "admin%20panel"} {
		if contains := containsStr(got, v); contains {
			t.Errorf("expected %q to be stripped, got %q", v, got)
		}
	}
}

func TestComputeFingerprintIgnoresReflectedPath(t *testing.T) {
	a := computeFingerprint(404, "the path /foo was not found", "foo")
	b := computeFingerprint(404, "the path /bar was not found", "bar")
	if a != b {
		t.Errorf("expected fingerprints to match once the echoed path is stripped: %x vs %x", a, b)
	}
}

func TestComputeFingerprintDiffersOnStatus(t *testing.T) {
	a := computeFingerprint(404, "missing", "x")
	b := computeFingerprint(500, "missing", "x")
	if a == b {
		t.Error("expected different status codes to produce different fingerprints")
	}
}

func containsStr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
