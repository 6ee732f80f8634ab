package frontier

import (
	"net/url"
	"sync"
	"testing"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestSubmitFIFOOrder(t *testing.T) {
	t.Parallel()
	f := New(false)
	f.Submit(mustURL(t, "http://a.test/1"), 1)
	f.Submit(mustURL(t, "http://a.test/2"), 1)
	f.Submit(mustURL(t, "http://a.test/3"), 1)

	items := f.Drain()
	want := []string{"http://a.test/1", "http://a.test/2", "http://a.test/3"}
	for i, item := range items {
		if item.URL.String() != want[i] {
			t.Errorf("item[%d] = %s, want %s", i, item.URL, want[i])
		}
	}
}

func TestSubmitLIFOOrder(t *testing.T) {
	t.Parallel()
	f := New(true)
	f.Submit(mustURL(t, "http://a.test/1"), 1)
	f.Submit(mustURL(t, "http://a.test/2"), 1)

	items := f.Drain()
	if items[0].URL.String() != "http://a.test/2" {
		t.Errorf("depth-first should surface the most recent submission first, got %s", items[0].URL)
	}
}

func TestSubmitRejectsNegativeDepth(t *testing.T) {
	t.Parallel()
	f := New(false)
	if f.Submit(mustURL(t, "http://a.test/"), -1) {
		t.Fatal("expected negative depth to be rejected")
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}
}

func TestMarkSeenOnlyOnce(t *testing.T) {
	t.Parallel()
	f := New(false)
	key := "http://a.test/"
	if !f.MarkSeen(key) {
		t.Fatal("expected first MarkSeen to succeed")
	}
	if f.MarkSeen(key) {
		t.Fatal("expected second MarkSeen to fail")
	}
}

func TestMarkSeenConcurrentCallersOnlyOneWins(t *testing.T) {
	t.Parallel()
	f := New(false)
	key := "http://a.test/"

	const n = 50
	var wg sync.WaitGroup
	var winners int
	var mu sync.Mutex
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if f.MarkSeen(key) {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestRequeueUnmarksAndResubmits(t *testing.T) {
	t.Parallel()
	f := New(false)
	u := mustURL(t, "http://a.test/")
	key := Key(u)

	f.MarkSeen(key)
	f.Requeue(key, u, 2)

	if f.Contains(key) {
		t.Fatal("expected Requeue to remove key from seen")
	}
	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", f.Len())
	}
	if !f.MarkSeen(key) {
		t.Fatal("expected key to be dispatchable again after Requeue")
	}
}

func TestTakeRespectsLimitAndLeavesRemainder(t *testing.T) {
	t.Parallel()
	f := New(false)
	for i := 0; i < 5; i++ {
		f.Submit(mustURL(t, "http://a.test/"+string(rune('a'+i))), 1)
	}

	first := f.Take(3)
	if len(first) != 3 {
		t.Fatalf("Take(3) returned %d items", len(first))
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 remaining", f.Len())
	}
	rest := f.Take(10)
	if len(rest) != 2 {
		t.Fatalf("Take(10) returned %d items, want the remaining 2", len(rest))
	}
}

func TestClearDropsPendingNotSeen(t *testing.T) {
	t.Parallel()
	f := New(false)
	u := mustURL(t, "http://a.test/")
	f.Submit(u, 1)
	f.MarkSeen(Key(u))

	f.Clear()
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", f.Len())
	}
	if !f.Contains(Key(u)) {
		t.Error("expected Clear to leave seen-set untouched")
	}
}
