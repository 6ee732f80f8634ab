package analyzer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Link is a candidate URL discovered on a page, not yet normalized or
// scope-checked; that work belongs to Admission.
type Link struct {
	Raw string
}

// RegexHit is one match of a search-regex pattern against a decoded
// page, formatted the way out_regex expects to print it.
type RegexHit struct {
	URL       string
	Line      int
	Match     string
	Formatted string
}

// EmailHit is one extracted email address, with its resolved name if the
// configured name pattern matched. HasName distinguishes "no name found"
// from "name happens to equal the address".
type EmailHit struct {
	Address string
	Name    string
	HasName bool
}

// Result collects everything one call to Analyze produced.
type Result struct {
	StopMatched bool
	RegexHits   []RegexHit
	EmailHits   []EmailHit
	Links       []Link
}

// Gate reports whether contentType names an HTML document. Analysis of
// any other content type is skipped entirely.
func Gate(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}

// Options bundles the per-run analysis configuration Analyze needs.
// Fields are nil/zero when the corresponding feature is disabled.
type Options struct {
	StopPattern     *regexp.Regexp
	SearchRegex     []*regexp.Regexp
	SearchEmails    bool
	SearchMailtos   bool
	EmailNames      *regexp.Regexp
	EmailNamesSet   bool
	EmailNamesStart int
	EmailNamesEnd   int
}

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	mailtoPattern = regexp.MustCompile(`mailto:\s*[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
)

// Analyze runs the ordered operations from the HTML Analyzer component
// against one page body. pageURL is used only to format regex-hit
// output lines. stopAlreadyReached lets the caller short-circuit the
// stop-pattern scan once the latch has already flipped elsewhere.
func Analyze(body []byte, contentType, pageURL string, opts Options, stopAlreadyReached bool) Result {
	var res Result

	// 1. Stop-pattern scan operates on the raw, pre-decode bytes: the
	// pattern is user-supplied and typically ASCII, and scanning before
	// any charset work keeps the latch check independent of whether
	// decoding succeeds.
	if opts.StopPattern != nil && !stopAlreadyReached {
		if opts.StopPattern.Match(body) {
			res.StopMatched = true
		}
	}

	decoded := decodeBody(body, contentType)

	// 2. Regex scan.
	if len(opts.SearchRegex) > 0 {
		res.RegexHits = scanRegex(decoded, pageURL, opts.SearchRegex)
	}

	// 3. Email scan.
	if opts.SearchEmails || opts.SearchMailtos {
		res.EmailHits = scanEmails(decoded, opts)
	}

	// 4. Link collection, for Admission to filter.
	res.Links = collectLinks(decoded)

	return res
}

// scanRegex implements §4.4 operation 2: split into lines, find every
// match of every pattern, and format "<url>:<line_number>: <match>"
// with 0-based line numbers.
func scanRegex(body []byte, pageURL string, patterns []*regexp.Regexp) []RegexHit {
	lines := bytes.Split(body, []byte("\n"))
	var hits []RegexHit
	for lineNo, line := range lines {
		for _, re := range patterns {
			for _, match := range re.FindAllString(string(line), -1) {
				hits = append(hits, RegexHit{
					URL:       pageURL,
					Line:      lineNo,
					Match:     match,
					Formatted: fmt.Sprintf("%s:%d: %s", pageURL, lineNo, match),
				})
			}
		}
	}
	return hits
}

// scanEmails implements §4.4 operation 3. It walks the body line by
// line so that the email_names_lines window can be resolved relative to
// the line each address was found on.
func scanEmails(body []byte, opts Options) []EmailHit {
	lines := bytes.Split(body, []byte("\n"))
	lineStrs := make([]string, len(lines))
	for i, l := range lines {
		lineStrs[i] = string(l)
	}

	var globalName string
	haveGlobalName := false
	if opts.EmailNames != nil && !opts.EmailNamesSet {
		globalName, haveGlobalName = findName(opts.EmailNames, strings.Join(lineStrs, "\n"))
	}

	var hits []EmailHit
	for i, line := range lineStrs {
		for _, addr := range extractAddresses(line, opts) {
			var name string
			var hasName bool
			switch {
			case opts.EmailNames == nil:
				// no name facility in use
			case opts.EmailNamesSet:
				window := windowText(lineStrs, i, opts.EmailNamesStart, opts.EmailNamesEnd)
				if n, ok := findName(opts.EmailNames, window); ok {
					name, hasName = n, true
				}
			case haveGlobalName:
				name, hasName = globalName, true
			}
			hits = append(hits, EmailHit{Address: addr, Name: name, HasName: hasName})
		}
	}
	return hits
}

// extractAddresses returns the plain-email hits (search_emails) and the
// mailto: hits (search_mailtos, prefix stripped) found on one line.
func extractAddresses(line string, opts Options) []string {
	var addrs []string
	if opts.SearchEmails {
		addrs = append(addrs, emailPattern.FindAllString(line, -1)...)
	}
	if opts.SearchMailtos {
		for _, m := range mailtoPattern.FindAllString(line, -1) {
			addrs = append(addrs, emailPattern.FindString(m))
		}
	}
	return addrs
}

// windowText joins the lines in [lineNo+start, lineNo+end], clamped to
// [0, last_line], into a single string for the name search.
func windowText(lines []string, lineNo, start, end int) string {
	last := len(lines) - 1
	from := clamp(lineNo+start, 0, last)
	to := clamp(lineNo+end, 0, last)
	if from > to {
		from, to = to, from
	}
	return strings.Join(lines[from:to+1], "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// findName applies re to text and returns the first capture group if
// the pattern has one, else the whole match.
func findName(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	return m[0], true
}

// FormatEmail renders one email hit the way out_emails expects it:
// "Name <address>" when a name was resolved, or the bare address
// otherwise.
func FormatEmail(hit EmailHit) string {
	if !hit.HasName {
		return hit.Address
	}
	return fmt.Sprintf("%s <%s>", hit.Name, hit.Address)
}

// collectLinks walks the token stream for <a href> and <img src>
// attributes rather than building a full DOM, covering both element
// types in a single pass.
func collectLinks(body []byte) []Link {
	var links []Link
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attr := ""
			switch tok.Data {
			case "a":
				attr = "href"
			case "img":
				attr = "src"
			default:
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == attr && a.Val != "" {
					links = append(links, Link{Raw: a.Val})
				}
			}
		}
	}
}
