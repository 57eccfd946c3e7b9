package httpclient

import (
	"net/http"
	"testing"
)

func TestResponseEqual(t *testing.T) {
	a := &Response{Status: 200, Redirect: "", Body: []byte("hello")}
	b := &Response{Status: 200, Redirect: "", Body: []byte("hello")}
	c := &Response{Status: 404, Redirect: "", Body: []byte("hello")}
	if !a.Equal(b) {
		t.Error("expected a.Equal(b) to be true")
	}
	if a.Equal(c) {
		t.Error("expected a.Equal(c) to be false (different status)")
	}
	if a.Equal(nil) {
		t.Error("expected a.Equal(nil) to be false")
	}
}

func TestResponseContentType(t *testing.T) {
	r := &Response{Headers: http.Header{"Content-Type": []string{"text/html; charset=utf-8"}}}
	if got := r.ContentType(); got != "text/html" {
		t.Errorf("ContentType() = %q, want text/html", got)
	}
}

func TestResponseContentTypeEmpty(t *testing.T) {
	r := &Response{Headers: http.Header{}}
	if got := r.ContentType(); got != "" {
		t.Errorf("ContentType() = %q, want empty", got)
	}
}

func TestResponseLengthAndFullPath(t *testing.T) {
	r := &Response{path: "admin", Body: []byte("1234567890")}
	if got := r.Length(); got != 10 {
		t.Errorf("Length() = %d, want 10", got)
	}
	if got := r.FullPath(); got != "admin" {
		t.Errorf("FullPath() = %q, want admin", got)
	}
}
