package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmartin-dev/dirsearch-go/internal/config"
)

func TestLooksLikeDirectory(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		status   int
		redirect string
		want     bool
	}{
		{"trailing slash", "admin/", 200, "", true},
		{"redirect to slash", "admin", 301, "http://h/admin/", true},
		{"redirect elsewhere", "admin", 302, "http://h/login", false},
		{"ok without extension", "api", 200, "", true},
		{"ok with extension", "robots.txt", 200, "", false},
		{"nested file", "js/app.min.js", 200, "", false},
		{"nested dir", "api/users", 200, "", true},
		{"client error", "admin", 403, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeDirectory(tt.path, tt.status, tt.redirect); got != tt.want {
				t.Errorf("looksLikeDirectory(%q, %d, %q) = %v, want %v", tt.path, tt.status, tt.redirect, got, tt.want)
			}
		})
	}
}

func TestResolveTargets_Single(t *testing.T) {
	opts := &config.Options{URL: "http://example.com"}
	targets, err := resolveTargets(opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 || targets[0] != "http://example.com" {
		t.Errorf("targets = %v", targets)
	}
}

func TestResolveTargets_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# comment\nexample.com\nhttps://secure.example.com\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	opts := &config.Options{URLsFile: path}
	targets, err := resolveTargets(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"http://example.com", "https://secure.example.com"}
	if len(targets) != len(want) {
		t.Fatalf("targets = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("targets[%d] = %q, want %q", i, targets[i], want[i])
		}
	}
}

func TestResolveTargets_CIDR(t *testing.T) {
	opts := &config.Options{CIDRTargets: "10.0.0.1/32", Ports: "8080"}
	targets, err := resolveTargets(opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 || targets[0] != "https://10.0.0.1:8080" {
		t.Errorf("targets = %v", targets)
	}
}

func TestResolveTargets_None(t *testing.T) {
	if _, err := resolveTargets(&config.Options{}); err == nil {
		t.Error("expected error with no targets")
	}
}

func TestBuildChain_InvalidRegex(t *testing.T) {
	opts := &config.Options{ExcludeRegex: "("}
	if _, err := buildChain(opts); err == nil {
		t.Error("expected error for invalid regex")
	}
}
