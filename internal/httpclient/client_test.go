package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientRequestBasic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("hit"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("miss"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := c.Request(context.Background(), "admin", "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if resp.Status != http.StatusOK || string(resp.Body) != "hit" {
		t.Errorf("got status %d body %q, want 200 hit", resp.Status, resp.Body)
	}
}

func TestClientDoesNotFollowRedirectsByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, Options{Timeout: 2 * time.Second, FollowRedirects: false})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := c.Request(context.Background(), "x", "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if resp.Status != http.StatusFound {
		t.Errorf("got status %d, want 302", resp.Status)
	}
	if resp.Redirect == "" {
		t.Error("expected Redirect to be populated")
	}
}

func TestClientRetriesTransientThenFails(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", Options{Timeout: 50 * time.Millisecond, MaxRetries: 2})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Request(context.Background(), "x", "")
	if err == nil {
		t.Fatal("expected error connecting to an unreachable address")
	}
}

func TestClientHostOverride(t *testing.T) {
	var gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Request(context.Background(), "x", "vhost.example.com"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if gotHost != "vhost.example.com" {
		t.Errorf("got host %q, want vhost.example.com", gotHost)
	}
}
