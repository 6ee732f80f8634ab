// Package frontier implements the crawler's pending-URL queue and seen-set:
// an ordered, depth-aware frontier that supports both breadth-first and
// depth-first traversal preference.
//
// Every mutation of pending or seen happens under a single mutex; there is
// no lock-free path anywhere.
package frontier

import (
	"net/url"
	"sync"
)

// Item is a pending (url, remaining depth) pair. Depth == 0 means the URL
// should be fetched but not recursed into.
type Item struct {
	URL   *url.URL
	Depth int
}

// Key returns the canonical seen-set key for u. There is no normalization
// beyond what spiderurl already applied; callers must pass an
// already-normalized URL.
func Key(u *url.URL) string {
	return u.String()
}

// Frontier holds the pending queue and the seen-set for one crawl run.
type Frontier struct {
	mu         sync.Mutex
	pending    []Item
	seen       map[string]bool
	depthFirst bool
}

// New creates an empty Frontier. depthFirst selects LIFO (head) insertion;
// otherwise items are inserted FIFO (tail).
func New(depthFirst bool) *Frontier {
	return &Frontier{
		seen:       make(map[string]bool),
		depthFirst: depthFirst,
	}
}

// Submit inserts an item at depth. It rejects negative depths and returns
// false without inserting. It does not consult or mutate the seen-set —
// that is the Admission filter's job on discovery, and the dispatch loop's
// job at dispatch time.
func (f *Frontier) Submit(u *url.URL, depth int) bool {
	if depth < 0 {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	item := Item{URL: u, Depth: depth}
	if f.depthFirst {
		f.pending = append([]Item{item}, f.pending...)
	} else {
		f.pending = append(f.pending, item)
	}
	return true
}

// Drain atomically swaps out the current pending queue and returns it,
// preserving order. Subsequent Submit calls start a fresh queue.
func (f *Frontier) Drain() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	drained := f.pending
	f.pending = nil
	return drained
}

// Take removes and returns up to n items from the front of pending,
// preserving traversal order, leaving the rest queued. It is how the
// Controller enforces the MaxThreads+2-per-iteration backpressure cap
// without having to drain (and risk losing track of) the whole queue.
func (f *Frontier) Take(n int) []Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n >= len(f.pending) {
		taken := f.pending
		f.pending = nil
		return taken
	}
	taken := f.pending[:n]
	f.pending = f.pending[n:]
	return taken
}

// Clear discards every item currently pending, without touching the
// seen-set. Used by soft-stop to drop not-yet-started work.
func (f *Frontier) Clear() {
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
}

// Len reports the number of items currently pending.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Contains reports whether key is already in the seen-set. This is a peek
// used by the Admission filter to avoid flooding pending with URLs that
// have already been dispatched; it is not the authoritative dedup gate —
// MarkSeen is.
func (f *Frontier) Contains(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[key]
}

// MarkSeen atomically tests and sets seen-set membership for key. It
// returns true if key was newly marked (the caller should dispatch it),
// or false if another caller already claimed it. This is the single point
// where the "dispatched at most once" invariant is enforced.
func (f *Frontier) MarkSeen(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

// Requeue atomically removes key from the seen-set and resubmits item at
// its current depth. Used exclusively for Cloudflare-challenge retries:
// the item is allowed to be dispatched again even though it was already
// marked seen once.
func (f *Frontier) Requeue(key string, u *url.URL, depth int) {
	f.mu.Lock()
	delete(f.seen, key)
	item := Item{URL: u, Depth: depth}
	if f.depthFirst {
		f.pending = append([]Item{item}, f.pending...)
	} else {
		f.pending = append(f.pending, item)
	}
	f.mu.Unlock()
}
