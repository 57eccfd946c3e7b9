package fuzz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jmartin-dev/dirsearch-go/internal/baseline"
	"github.com/jmartin-dev/dirsearch-go/internal/dictionary"
	"github.com/jmartin-dev/dirsearch-go/internal/exclusion"
	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
)

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("admin panel"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("catch-all page"))
	}))
}

func TestFuzzerFindsRealHitAndSkipsWildcard(t *testing.T) {
	srv := newFixtureServer(t)
	defer srv.Close()

	client, err := httpclient.NewClient(srv.URL, httpclient.Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	dict, err := dictionary.NewFromLines("mem", []string{"admin", "nope"}, dictionary.Config{})
	if err != nil {
		t.Fatalf("NewFromLines: %v", err)
	}

	f := New(client, dict, exclusion.NewChain(nil), Config{ThreadCount: 2, Method: "GET"}, Callbacks{
		OnMatch: func(r Result) {
			mu.Lock()
			matches = append(matches, r.Path)
			mu.Unlock()
		},
	}, nil)

	ctx := context.Background()
	if err := f.Setup(ctx, baseline.SetOptions{ProbeCount: 2}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := f.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mu.Lock()
	got := append([]string(nil), matches...)
	mu.Unlock()

	if len(got) != 1 || got[0] != "admin" {
		t.Errorf("matches = %v, want exactly [admin]", got)
	}
	if !f.IsFinished() {
		t.Error("expected Fuzzer to be finished after Start returns")
	}
}

var (
	mu      sync.Mutex
	matches []string
)

func TestFuzzerQuitStopsWorkers(t *testing.T) {
	srv := newFixtureServer(t)
	defer srv.Close()

	client, err := httpclient.NewClient(srv.URL, httpclient.Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	lines := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, "path"+string(rune('a'+i%26))+string(rune('0'+i%10)))
	}
	dict, err := dictionary.NewFromLines("mem", lines, dictionary.Config{})
	if err != nil {
		t.Fatalf("NewFromLines: %v", err)
	}

	f := New(client, dict, exclusion.NewChain(nil), Config{ThreadCount: 1, Delay: 10 * time.Millisecond}, Callbacks{}, nil)
	ctx := context.Background()
	if err := f.Setup(ctx, baseline.SetOptions{ProbeCount: 2}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- f.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	f.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Quit()")
	}
}
