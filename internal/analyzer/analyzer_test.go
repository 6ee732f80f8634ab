package analyzer

import (
	"regexp"
	"testing"
)

func TestGate(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"text/html; charset=utf-8": true,
		"text/html":                true,
		"application/json":         false,
		"":                         false,
	}
	for ct, want := range cases {
		if got := Gate(ct); got != want {
			t.Errorf("Gate(%q) = %v, want %v", ct, got, want)
		}
	}
}

func TestAnalyzeStopPattern(t *testing.T) {
	t.Parallel()
	body := []byte("<html><body>access denied here</body></html>")
	opts := Options{StopPattern: regexp.MustCompile(`access denied`)}

	res := Analyze(body, "text/html", "http://a.test/", opts, false)
	if !res.StopMatched {
		t.Fatal("expected stop pattern to match")
	}

	res = Analyze(body, "text/html", "http://a.test/", opts, true)
	if res.StopMatched {
		t.Fatal("already-reached latch must suppress re-matching")
	}
}

func TestAnalyzeRegexScan(t *testing.T) {
	t.Parallel()
	body := []byte("line zero\nfind TARGET here\nline two")
	opts := Options{SearchRegex: []*regexp.Regexp{regexp.MustCompile(`TARGET`)}}

	res := Analyze(body, "text/html", "http://a.test/page", opts, false)
	if len(res.RegexHits) != 1 {
		t.Fatalf("got %d hits, want 1", len(res.RegexHits))
	}
	want := "http://a.test/page:1: TARGET"
	if res.RegexHits[0].Formatted != want {
		t.Errorf("formatted = %q, want %q", res.RegexHits[0].Formatted, want)
	}
}

func TestAnalyzeEmailsNoNames(t *testing.T) {
	t.Parallel()
	body := []byte("contact jane@x.test for details")
	opts := Options{SearchEmails: true}

	res := Analyze(body, "text/html", "http://a.test/", opts, false)
	if len(res.EmailHits) != 1 {
		t.Fatalf("got %d hits, want 1", len(res.EmailHits))
	}
	if res.EmailHits[0].Address != "jane@x.test" {
		t.Errorf("address = %q", res.EmailHits[0].Address)
	}
	if got := FormatEmail(res.EmailHits[0]); got != "jane@x.test" {
		t.Errorf("FormatEmail = %q, want bare address when no name resolved", got)
	}
}

func TestAnalyzeEmailsWithNamesLinesWindow(t *testing.T) {
	t.Parallel()
	lines := make([]string, 13)
	for i := range lines {
		lines[i] = ""
	}
	lines[9] = "Dr. Jane Roe"
	lines[11] = "jane@x.test"
	body := []byte(joinLines(lines))

	opts := Options{
		SearchEmails:    true,
		EmailNames:      regexp.MustCompile(`Dr\.\s+([A-Za-z ]+)`),
		EmailNamesSet:   true,
		EmailNamesStart: -3,
		EmailNamesEnd:   -1,
	}

	res := Analyze(body, "text/html", "http://a.test/", opts, false)
	if len(res.EmailHits) != 1 {
		t.Fatalf("got %d hits, want 1", len(res.EmailHits))
	}
	if got := FormatEmail(res.EmailHits[0]); got != "Jane Roe <jane@x.test>" {
		t.Errorf("FormatEmail = %q", got)
	}
}

func TestAnalyzeMailtoStripsPrefix(t *testing.T) {
	t.Parallel()
	body := []byte(`<a href="mailto:  bob@x.test">mail</a>`)
	opts := Options{SearchMailtos: true}

	res := Analyze(body, "text/html", "http://a.test/", opts, false)
	if len(res.EmailHits) != 1 {
		t.Fatalf("got %d hits, want 1", len(res.EmailHits))
	}
	if res.EmailHits[0].Address != "bob@x.test" {
		t.Errorf("address = %q, want stripped of mailto: prefix", res.EmailHits[0].Address)
	}
}

func TestCollectLinks(t *testing.T) {
	t.Parallel()
	body := []byte(`<html><body><a href="/a">A</a><img src="/b.png"/><a href="">skip</a></body></html>`)

	links := collectLinks(body)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2: %+v", len(links), links)
	}
	if links[0].Raw != "/a" || links[1].Raw != "/b.png" {
		t.Errorf("links = %+v", links)
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
