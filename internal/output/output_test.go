package output

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestWriteURLAppendsLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s := New(&buf, nil, nil, "")

	if err := s.WriteURL("http://a.test/"); err != nil {
		t.Fatalf("WriteURL: %v", err)
	}
	if got := buf.String(); got != "http://a.test/\n" {
		t.Errorf("buf = %q", got)
	}
}

func TestWriteLineNoopWhenDestinationNil(t *testing.T) {
	t.Parallel()
	s := New(nil, nil, nil, "")
	if err := s.WriteURL("x"); err != nil {
		t.Fatalf("WriteURL with nil destination should be a no-op: %v", err)
	}
}

func TestWriteBlobMirrorsPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(nil, nil, nil, dir)

	if err := s.WriteBlob("a.test", "/docs/page.html", "", "", []byte("hello")); err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.test", "docs", "page.html"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteBlobDirectoryCollision(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(nil, nil, nil, dir)

	if err := s.WriteBlob("a.test", "/docs/sub/leaf", "", "", []byte("one")); err != nil {
		t.Fatalf("WriteBlob sub: %v", err)
	}
	if err := s.WriteBlob("a.test", "/docs", "", "", []byte("two")); err != nil {
		t.Fatalf("WriteBlob collision: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.test", "docs", "directory_content"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteBlobRootPathSynthesizesIndex(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(nil, nil, nil, dir)

	if err := s.WriteBlob("a.test", "/", "", "", []byte("root")); err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := os.ReadFile(filepath.Join(dir, "a.test", "index")); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
}

func TestQualifiesEverythingWhenUnrestricted(t *testing.T) {
	t.Parallel()
	if !Qualifies("/anything.zip", nil, nil, nil) {
		t.Fatal("expected unrestricted rules to qualify everything")
	}
}

func TestQualifiesByExtension(t *testing.T) {
	t.Parallel()
	exts := map[string]bool{"pdf": true}
	if !Qualifies("/doc.pdf", exts, nil, nil) {
		t.Error("expected .pdf to qualify")
	}
	if Qualifies("/doc.txt", exts, nil, nil) {
		t.Error("expected .txt to be rejected")
	}
}

func TestQualifiesByWithinPrefix(t *testing.T) {
	t.Parallel()
	if !Qualifies("/downloads/a.bin", nil, nil, []string{"downloads/"}) {
		t.Error("expected path within prefix to qualify")
	}
	if Qualifies("/other/a.bin", nil, nil, []string{"downloads/"}) {
		t.Error("expected path outside prefix to be rejected")
	}
}

func TestQualifiesByRegexAnchored(t *testing.T) {
	t.Parallel()
	res := []*regexp.Regexp{regexp.MustCompile(`(?i)^/reports/`)}
	if !Qualifies("/reports/q1.csv", nil, res, nil) {
		t.Error("expected anchored match to qualify")
	}
	if Qualifies("/archive/reports/q1.csv", nil, res, nil) {
		t.Error("expected unanchored position to be rejected")
	}
}
