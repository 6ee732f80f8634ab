// Package fetcher performs the HTTP GET step of the pipeline: issuing
// the request with the configured proxy and User-Agent, retrying
// transport failures, and classifying the response before handing the
// body to the analyzer.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Class is the outcome bucket a response falls into, driving what the
// Controller does next.
type Class int

const (
	// ClassOK is a 200 response ready for analysis.
	ClassOK Class = iota
	// ClassNotFound is a 404.
	ClassNotFound
	// ClassCloudflare is a 403 whose title carries the Cloudflare
	// challenge string.
	ClassCloudflare
	// ClassForbidden is a 403 without the Cloudflare title.
	ClassForbidden
	// ClassOther is any other non-200 status.
	ClassOther
)

// cloudflareTitle is the exact challenge-page title substring §6 names.
const cloudflareTitle = "Attention Required! | Cloudflare"

// Result is what one fetch attempt produced.
type Result struct {
	Class       Class
	StatusCode  int
	ContentType string
	Body        []byte
	Err         error
	Retries     int
}

// Fetcher wraps an *http.Client configured with the run's proxy, and
// issues GETs with the configured User-Agent and retry budget.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	failSleep  time.Duration
}

// New builds a Fetcher. proxy may be empty. A non-empty proxy that
// fails to parse as a URL is returned as an error.
func New(proxyURL, userAgent string, maxRetries int, failSleep time.Duration) (*Fetcher, error) {
	client := &http.Client{}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("fetcher: invalid proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	}
	return &Fetcher{
		client:     client,
		userAgent:  userAgent,
		maxRetries: maxRetries,
		failSleep:  failSleep,
	}, nil
}

// Fetch performs the GET, retrying transport-level failures up to
// maxRetries times with failSleep between attempts, then classifies the
// final response. A non-transport response (any status code at all) is
// never retried; only network/transport errors are.
func (f *Fetcher) Fetch(ctx context.Context, target string) Result {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Result{Err: ctx.Err(), Retries: attempt}
			case <-time.After(f.failSleep):
			}
		}

		resp, body, err := f.do(ctx, target)
		if err != nil {
			lastErr = err
			continue
		}
		res := classify(resp.StatusCode, resp.Header.Get("Content-Type"), body)
		res.Retries = attempt
		return res
	}
	return Result{Err: fmt.Errorf("fetcher: %s: %w", target, lastErr), Retries: f.maxRetries}
}

func (f *Fetcher) do(ctx context.Context, target string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

func classify(status int, contentType string, body []byte) Result {
	res := Result{StatusCode: status, ContentType: contentType, Body: body}
	switch {
	case status == http.StatusOK:
		res.Class = ClassOK
	case status == http.StatusNotFound:
		res.Class = ClassNotFound
	case status == http.StatusForbidden:
		if isCloudflareChallenge(body) {
			res.Class = ClassCloudflare
		} else {
			res.Class = ClassForbidden
		}
	default:
		res.Class = ClassOther
	}
	return res
}

// isCloudflareChallenge reports whether body's <title> carries the
// Cloudflare challenge string. A byte-level substring search on the
// title region is enough; the string is plain ASCII and doesn't depend
// on decoding the body's declared charset first.
func isCloudflareChallenge(body []byte) bool {
	lower := string(body)
	start := strings.Index(lower, "<title>")
	if start < 0 {
		return strings.Contains(lower, cloudflareTitle)
	}
	end := strings.Index(lower[start:], "</title>")
	if end < 0 {
		return strings.Contains(lower[start:], cloudflareTitle)
	}
	return strings.Contains(lower[start:start+end], cloudflareTitle)
}
