package runner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmartin-dev/dirsearch-go/internal/config"
)

func writeWordlist(t *testing.T, words []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOpts(t *testing.T, serverURL, wordlistPath string) *config.Options {
	t.Helper()
	return &config.Options{
		URL:           serverURL,
		WordlistPaths: []string{wordlistPath},
		Threads:       2,
		Timeout:       5 * time.Second,
		Quiet:         true,
		NoColor:       true,
		OutputFile:    filepath.Join(t.TempDir(), "output.txt"),
		OutputFormat:  "text",
		NoWildcard:    true,
		CrawlDepth:    2,
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestBasicScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin":
			w.WriteHeader(200)
			fmt.Fprint(w, "admin page")
		case "/login":
			w.WriteHeader(200)
			fmt.Fprint(w, "login page")
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin", "login", "missing"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.ExcludeStatus = []int{404}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "/admin") {
		t.Errorf("output missing /admin:\n%s", out)
	}
	if !strings.Contains(out, "/login") {
		t.Errorf("output missing /login:\n%s", out)
	}
	if strings.Contains(out, "/missing") {
		t.Errorf("output should not contain /missing:\n%s", out)
	}
}

func TestWildcardSuppression(t *testing.T) {
	// Every path returns an identical 200 page: calibration must
	// suppress everything.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		fmt.Fprint(w, "<html>welcome to the catch-all</html>")
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin", "login", "backup", "test", "config"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.NoWildcard = false

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := readOutput(t, opts.OutputFile)
	for _, p := range []string{"/admin", "/login", "/backup", "/test", "/config"} {
		if strings.Contains(out, p) {
			t.Errorf("wildcard response for %s should have been suppressed:\n%s", p, out)
		}
	}
}

func TestCrawlDiscoversLinkedPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index":
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(200)
			fmt.Fprint(w, `<a href="/hidden-panel">link</a>`)
		case "/hidden-panel":
			w.WriteHeader(200)
			fmt.Fprint(w, "found me")
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"index"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.ExcludeStatus = []int{404}
	opts.Crawl = true

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "/hidden-panel") {
		t.Errorf("crawl should have discovered /hidden-panel:\n%s", out)
	}
}

func TestRecursionScansSubdirectories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/":
			w.WriteHeader(200)
			fmt.Fprint(w, "admin index")
		case "/admin/secret":
			w.WriteHeader(200)
			fmt.Fprint(w, "the secret")
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin/", "secret"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.ExcludeStatus = []int{404}
	opts.Recursive = true
	opts.MaxDepth = 2

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "/admin/secret") {
		t.Errorf("recursion should have found /admin/secret:\n%s", out)
	}
}

func TestResumeFileRemovedAfterCompletedScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"one", "two", "three"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.ResumeFile = filepath.Join(t.TempDir(), "scan.state")

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	// A completed scan removes its resume file.
	if _, err := os.Stat(opts.ResumeFile); !os.IsNotExist(err) {
		t.Errorf("resume file should be removed after completion")
	}
}

func TestJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" {
			w.WriteHeader(200)
			fmt.Fprint(w, "api root")
			return
		}
		w.WriteHeader(404)
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"api", "nothing"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.ExcludeStatus = []int{404}
	opts.OutputFormat = "json"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, `"status": 200`) {
		t.Errorf("JSON output missing status field:\n%s", out)
	}
	if !strings.Contains(out, "/api") {
		t.Errorf("JSON output missing /api:\n%s", out)
	}
}

func TestTargetFromURLsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin" {
			w.WriteHeader(200)
			fmt.Fprint(w, "ok")
			return
		}
		w.WriteHeader(404)
	}))
	defer srv.Close()

	urlsFile := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(urlsFile, []byte("# targets\n"+srv.URL+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	wordlist := writeWordlist(t, []string{"admin"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.URL = ""
	opts.URLsFile = urlsFile
	opts.ExcludeStatus = []int{404}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "/admin") {
		t.Errorf("output missing /admin:\n%s", out)
	}
}
