package admission

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/spindle-crawl/spindle/internal/frontier"
)

type fakeSubmitter struct {
	seen      map[string]bool
	submitted []string
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{seen: make(map[string]bool)}
}

func (f *fakeSubmitter) Contains(key string) bool { return f.seen[key] }

func (f *fakeSubmitter) Submit(u *url.URL, depth int) bool {
	key := frontier.Key(u)
	f.seen[key] = true
	f.submitted = append(f.submitted, key)
	return true
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestConsiderSameHostAccepted(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	f := newFakeSubmitter()

	if !Consider("/x", parent, 2, Policy{}, f) {
		t.Fatal("expected same-host link to be accepted")
	}
	if len(f.submitted) != 1 {
		t.Fatalf("submitted = %v", f.submitted)
	}
}

func TestConsiderCrossHostRejectedByDefault(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	f := newFakeSubmitter()

	if Consider("http://b.test/y", parent, 2, Policy{}, f) {
		t.Fatal("expected cross-host link to be rejected without cross_domains/domains")
	}
}

func TestConsiderCrossDomainsAccepted(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	f := newFakeSubmitter()

	if !Consider("http://b.test/y", parent, 2, Policy{CrossDomains: true}, f) {
		t.Fatal("expected cross-host link to be accepted with cross_domains")
	}
}

func TestConsiderDepthExhausted(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	f := newFakeSubmitter()

	if Consider("/x", parent, 0, Policy{}, f) {
		t.Fatal("expected rejection at remaining depth 0")
	}
}

func TestConsiderAlreadySeen(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	f := newFakeSubmitter()
	f.seen["http://a.test/x"] = true

	if Consider("/x", parent, 2, Policy{}, f) {
		t.Fatal("expected rejection of an already-seen URL")
	}
}

func TestConsiderNoParent(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/docs/")
	f := newFakeSubmitter()

	if !Consider("/docs/sub/page", parent, 2, Policy{NoParent: true}, f) {
		t.Fatal("expected child-path link to be accepted under --no-parent")
	}
	f2 := newFakeSubmitter()
	if Consider("/other", parent, 2, Policy{NoParent: true}, f2) {
		t.Fatal("expected sibling link to be rejected under --no-parent")
	}
}

func TestConsiderRecursePatternInclude(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	pol := Policy{RecursePattern: []*regexp.Regexp{regexp.MustCompile(`^/allowed`)}}

	f := newFakeSubmitter()
	if !Consider("/allowed/x", parent, 2, pol, f) {
		t.Fatal("expected matching path to be accepted")
	}
	f2 := newFakeSubmitter()
	if Consider("/nope", parent, 2, pol, f2) {
		t.Fatal("expected non-matching path to be rejected")
	}
}

func TestConsiderRecurseIgnorePatternExclude(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	pol := Policy{RecurseIgnorePattern: []*regexp.Regexp{regexp.MustCompile(`^/skip`)}}

	f := newFakeSubmitter()
	if Consider("/skip/b", parent, 2, pol, f) {
		t.Fatal("expected ignored path to be rejected")
	}
	f2 := newFakeSubmitter()
	if !Consider("/a", parent, 2, pol, f2) {
		t.Fatal("expected non-ignored path to be accepted")
	}
}

func TestConsiderDomainsSet(t *testing.T) {
	t.Parallel()
	parent := mustParse(t, "http://a.test/")
	pol := Policy{Domains: map[string]bool{"c.test": true}}

	f := newFakeSubmitter()
	if !Consider("http://c.test/z", parent, 2, pol, f) {
		t.Fatal("expected allow-listed domain to be accepted")
	}
	f2 := newFakeSubmitter()
	if Consider("http://d.test/z", parent, 2, pol, f2) {
		t.Fatal("expected non-allow-listed domain to be rejected")
	}
}
