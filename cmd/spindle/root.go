package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spindle-crawl/spindle/internal/config"
)

// NewRootCmd creates the root command for spindle.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spindle [urls...]",
		Short: "Concurrent web crawler with scoped recursion and content extraction",
		Long: `spindle crawls a set of seed URLs, optionally following links within a
configured scope, extracting regex and email matches from fetched pages,
and mirroring page bodies to disk.

Examples:
  # Fetch a single page
  spindle https://example.org/

  # Recurse two levels deep, same host only
  spindle -r -d 2 https://example.org/

  # Read seeds from a file, mirror everything under ./out
  spindle -f seeds.txt -o ./out

  # Stop the run as soon as a page matches a pattern
  spindle -r -s "Access Denied" https://example.org/`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCrawlCmd,
	}

	registerCrawlFlags(cmd)
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// registerCrawlFlags defines every CLI flag, grouped by function.
func registerCrawlFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	// Input
	f.StringArrayP("file", "f", nil, "Read newline-delimited seed URLs from this file (repeatable)")

	// Spider
	f.BoolP("recurse", "r", false, "Follow links discovered on fetched pages")
	f.IntP("max-depth", "d", config.DefaultMaxDepth, "Maximum recursion depth")
	f.IntP("max-retries", "m", config.DefaultMaxRetries, "Transport-failure retry budget per URL")
	f.StringArrayP("pages", "p", nil, `Page-number ranges for {page} seed templates (e.g. "1-2,5,6-10")`)
	f.String("proxy", "", "Proxy URL for all requests")
	f.StringP("user-agent", "A", "", "User-Agent header to send")
	f.String("user-agent-file", "", "Pick one User-Agent at random from this newline-delimited file")
	f.IntP("max-threads", "t", config.DefaultMaxThreads, "Maximum concurrent fetches")
	f.StringP("stop-pattern", "s", "", "Soft-stop the run once this pattern is found in a page body")
	f.Bool("stop-on-404", false, "Soft-stop the run on the first 404 response")
	f.Bool("requeue-cloudflare", false, "Requeue URLs that hit a Cloudflare challenge instead of dropping them")
	f.StringArray("recurse-pattern", nil, "Only follow links matching this pattern (repeatable)")
	f.StringArray("recurse-ignore-pattern", nil, "Never follow links matching this pattern (repeatable)")
	f.Bool("cross-domains", false, "Allow following links to other hosts")
	f.StringArray("domains", nil, "Also follow links to these hosts besides the page's own host; ignored with --cross-domains (repeatable)")
	f.BoolP("no-parent", "n", false, "Never follow links above the seed's starting path")
	f.Bool("depth-first", false, "Traverse the frontier depth-first instead of breadth-first")

	// Download
	f.StringArray("download-extension", nil, "Only mirror paths with this extension (repeatable)")
	f.StringArray("download-regex", nil, "Only mirror paths matching this pattern, case-insensitive (repeatable)")
	f.StringArray("download-within", nil, "Only mirror paths under this prefix (repeatable)")

	// Search
	f.StringArray("search-regex", nil, "Report matches of this pattern found in page bodies (repeatable)")
	f.Bool("search-emails", false, "Extract bare email addresses from page bodies")
	f.Bool("search-mailtos", false, "Extract mailto: email addresses from page bodies")
	f.String("email-names", "", "Pattern whose first capture group names an email's owner")
	f.String("email-names-lines", "", `Line window around a match to search for a name, as "start [end]"`)

	// Output
	f.StringP("out-dir", "o", "", "Mirror downloaded page bodies under this directory")
	f.String("out-urls", "", `File to append successfully fetched URLs to ("-" for stdout)`)
	f.String("out-emails", "", "File to append extracted email records to (default: stdout)")
	f.String("out-regex", "", "File to append regex match records to (default: stdout)")
	f.String("out-log", "", "File to write log output to (default: stderr)")
	f.String("config", "", "Path to the optional YAML defaults file")

	// Other
	f.BoolP("debug", "D", false, "Enable debug-level logging and print the run summary to stdout")
}
