package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchOK(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f, err := New("", "spindle-test", 0, time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := f.Fetch(context.Background(), srv.URL)
	if res.Err != nil {
		t.Fatalf("Fetch: %v", res.Err)
	}
	if res.Class != ClassOK {
		t.Errorf("class = %v, want ClassOK", res.Class)
	}
}

func TestFetchNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f, _ := New("", "", 0, time.Millisecond)
	res := f.Fetch(context.Background(), srv.URL)
	if res.Class != ClassNotFound {
		t.Errorf("class = %v, want ClassNotFound", res.Class)
	}
}

func TestFetchCloudflareChallenge(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html><head><title>Attention Required! | Cloudflare</title></head></html>"))
	}))
	defer srv.Close()

	f, _ := New("", "", 0, time.Millisecond)
	res := f.Fetch(context.Background(), srv.URL)
	if res.Class != ClassCloudflare {
		t.Errorf("class = %v, want ClassCloudflare", res.Class)
	}
}

func TestFetchForbiddenWithoutCloudflare(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html><head><title>Access Denied</title></head></html>"))
	}))
	defer srv.Close()

	f, _ := New("", "", 0, time.Millisecond)
	res := f.Fetch(context.Background(), srv.URL)
	if res.Class != ClassForbidden {
		t.Errorf("class = %v, want ClassForbidden", res.Class)
	}
}

func TestFetchRetriesTransportFailureThenGivesUp(t *testing.T) {
	t.Parallel()
	f, _ := New("", "", 2, time.Millisecond)
	res := f.Fetch(context.Background(), "http://127.0.0.1:0/unreachable")
	if res.Err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(res.Err.Error(), "fetcher:") {
		t.Errorf("error = %v, want fetcher-wrapped", res.Err)
	}
	if res.Retries != 2 {
		t.Errorf("retries = %d, want 2", res.Retries)
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	t.Parallel()
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f, _ := New("", "", 5, time.Millisecond)
	res := f.Fetch(context.Background(), srv.URL)
	if res.Err != nil {
		t.Fatalf("Fetch: %v", res.Err)
	}
	if res.Retries != 2 {
		t.Errorf("retries = %d, want 2", res.Retries)
	}
}
