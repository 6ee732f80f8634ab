// Package useragent loads a newline-delimited list of User-Agent strings
// and picks one uniformly at random for the run.
package useragent

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// Pick reads path and returns one non-blank line chosen uniformly at
// random. The choice is made once per call; callers that want "one per
// run" semantics call this exactly once and reuse the result.
func Pick(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("useragent: open %s: %w", path, err)
	}
	defer f.Close()

	var agents []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			agents = append(agents, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("useragent: read %s: %w", path, err)
	}
	if len(agents) == 0 {
		return "", fmt.Errorf("useragent: %s contains no agent strings", path)
	}

	return agents[rand.IntN(len(agents))], nil
}
