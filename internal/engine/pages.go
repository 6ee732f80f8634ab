package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandSeeds applies the {page} template substitution (§6 -p/--pages) to
// each raw seed. A seed containing the literal "{page}" is expanded once
// per page number named by ranges; a seed without it is returned
// unchanged, ignoring ranges entirely.
func ExpandSeeds(rawSeeds []string, pageRanges []string) ([]string, error) {
	pages, err := parsePageRanges(pageRanges)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, seed := range rawSeeds {
		if !strings.Contains(seed, "{page}") {
			out = append(out, seed)
			continue
		}
		if len(pages) == 0 {
			out = append(out, seed)
			continue
		}
		for _, p := range pages {
			out = append(out, strings.ReplaceAll(seed, "{page}", strconv.Itoa(p)))
		}
	}
	return out, nil
}

// parsePageRanges parses the repeatable -p/--pages flag values, each of
// which may itself be a comma-separated list of single numbers or
// "start-end" ranges (e.g. "1-2,5,6-10"), into a flat, ordered list of
// page numbers.
func parsePageRanges(ranges []string) ([]int, error) {
	var pages []int
	for _, spec := range ranges {
		for _, part := range strings.Split(spec, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if idx := strings.IndexByte(part, '-'); idx >= 0 {
				start, err := strconv.Atoi(strings.TrimSpace(part[:idx]))
				if err != nil {
					return nil, fmt.Errorf("engine: invalid page range %q: %w", part, err)
				}
				end, err := strconv.Atoi(strings.TrimSpace(part[idx+1:]))
				if err != nil {
					return nil, fmt.Errorf("engine: invalid page range %q: %w", part, err)
				}
				for p := start; p <= end; p++ {
					pages = append(pages, p)
				}
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("engine: invalid page number %q: %w", part, err)
			}
			pages = append(pages, n)
		}
	}
	return pages, nil
}
