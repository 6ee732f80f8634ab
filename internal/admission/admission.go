// Package admission implements the recursion policy gate: the only
// place scope, pattern, and depth rules live, applied as an ordered
// filter chain.
package admission

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/spindle-crawl/spindle/internal/frontier"
	"github.com/spindle-crawl/spindle/internal/spiderurl"
)

// Policy bundles the configuration the filter chain reads. Disabled
// features are represented by nil/empty/false zero values.
type Policy struct {
	RecursePattern       []*regexp.Regexp
	RecurseIgnorePattern []*regexp.Regexp
	NoParent             bool
	CrossDomains         bool
	Domains              map[string]bool
}

// Submitter is the narrow frontier surface the filter needs: peeking at
// seen without marking it, and submitting an accepted URL at its new
// depth. Dispatch-time seen marking is the Controller's job, not
// Admission's.
type Submitter interface {
	Contains(key string) bool
	Submit(u *url.URL, depth int) bool
}

// Consider runs one candidate link through the ordered filter chain in
// §4.5 and submits it to f if accepted. remainingDepth is the
// remaining-depth budget of the page the link was found on; an accepted
// link is submitted at remainingDepth-1.
func Consider(raw string, parent *url.URL, remainingDepth int, p Policy, f Submitter) bool {
	if remainingDepth <= 0 {
		return false
	}

	// Normalize before the seen check: seen keys are always canonical
	// URL strings, and Resolve already rejects unsupported schemes and
	// empty hosts (step 3), so there is no separate scheme check here.
	candidate, err := spiderurl.Resolve(raw, parent)
	if err != nil {
		return false
	}

	key := frontier.Key(candidate)
	if f.Contains(key) {
		return false
	}

	if len(p.RecursePattern) > 0 && !matchesAny(p.RecursePattern, candidate.Path) {
		return false
	}
	if matchesAny(p.RecurseIgnorePattern, candidate.Path) {
		return false
	}

	if p.NoParent {
		prefix := strings.TrimRight(parent.Path, "/") + "/"
		if !strings.HasPrefix(candidate.Path, prefix) {
			return false
		}
	}

	if !inScope(candidate.Host, parent.Host, p) {
		return false
	}

	return f.Submit(candidate, remainingDepth-1)
}

// matchesAny reports whether any pattern re.match-es path, i.e. matches
// starting at position 0.
func matchesAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if loc := re.FindStringIndex(path); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

func inScope(candidateHost, parentHost string, p Policy) bool {
	if p.CrossDomains {
		return true
	}
	if len(p.Domains) > 0 {
		return p.Domains[candidateHost] || candidateHost == parentHost
	}
	return candidateHost == parentHost
}
