// Package main provides the entry point for the spindle CLI.
//
// spindle crawls a set of seed URLs, following links within the
// configured scope, extracting regex and email matches, and optionally
// mirroring page bodies to disk.
//
// Usage:
//
//	spindle https://example.org
//	spindle -f urls.txt -r -d 2 -o ./out
//
// See --help for all available options.
package main

func main() {
	Execute()
}
