// Package spiderurl implements the crawler's URL promotion and validation
// rules: turning a raw, possibly relative or scheme-less link into an
// absolute URL with a supported scheme, or rejecting it.
//
// There is no canonicalization beyond the two prepend rules below. Every
// caller that needs to test or mutate the seen-set goes through Normalize
// (seeds) or Resolve (discovered links) first, so that "when do we
// canonicalize" has one answer across the codebase.
package spiderurl

import (
	"fmt"
	"net/url"
)

// SupportedSchemes lists the schemes the crawler will fetch.
var SupportedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
}

// Normalize promotes a raw link into an absolute URL relative to parent,
// applying, in order:
//
//  1. a leading "/" means prepend the parent's scheme+host;
//  2. a missing scheme means prepend "http://".
//
// It returns an error if the result has an unsupported scheme or an empty
// host. parent may be nil only when raw is already absolute.
func Normalize(raw string, parent *url.URL) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("spiderurl: empty link")
	}

	if len(raw) > 0 && raw[0] == '/' && parent != nil {
		raw = parent.Scheme + "://" + parent.Host + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("spiderurl: parse %q: %w", raw, err)
	}

	if u.Scheme == "" {
		u, err = url.Parse("http://" + raw)
		if err != nil {
			return nil, fmt.Errorf("spiderurl: parse %q: %w", raw, err)
		}
	}

	if !SupportedSchemes[u.Scheme] {
		return nil, fmt.Errorf("spiderurl: unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("spiderurl: empty host in %q", raw)
	}

	return u, nil
}

// Resolve promotes a link discovered while parsing a page whose address is
// base by resolving it against base the way net/url resolves a reference:
// a leading "/" keeps base's scheme and host (Normalize's first rule), and
// other relative references (e.g. "../x", "x/y") resolve against base's
// path. A scheme-less link such as "a.test/x" is resolved as a relative
// path under base, not promoted to "http://a.test/x"; "http" is filled in
// only when the resolved URL still has no scheme. It returns an error for
// an unsupported scheme or an empty host.
func Resolve(raw string, base *url.URL) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("spiderurl: empty link")
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("spiderurl: parse %q: %w", raw, err)
	}

	resolved := base.ResolveReference(ref)

	if resolved.Scheme == "" {
		resolved.Scheme = "http"
	}
	if !SupportedSchemes[resolved.Scheme] {
		return nil, fmt.Errorf("spiderurl: unsupported scheme %q in %q", resolved.Scheme, raw)
	}
	if resolved.Host == "" {
		return nil, fmt.Errorf("spiderurl: empty host in %q", raw)
	}

	return resolved, nil
}
