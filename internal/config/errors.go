package config

import "errors"

// Sentinel errors returned by New and LoadFileConfig so callers can use
// errors.Is for programmatic handling while still getting a readable
// message from Error().
var (
	// ErrNoSeeds is returned when no positional URL and no -f/--file was given.
	ErrNoSeeds = errors.New("config: no seed URLs supplied")

	// ErrNoOutput is returned when none of the output sinks (out-dir, out-urls,
	// out-emails, out-regex) was selected.
	ErrNoOutput = errors.New("config: no output method selected")

	// ErrInvalidMaxThreads is returned when --max-threads is not positive.
	ErrInvalidMaxThreads = errors.New("config: max-threads must be positive")

	// ErrInvalidMaxDepth is returned when --max-depth is negative.
	ErrInvalidMaxDepth = errors.New("config: max-depth must be non-negative")

	// ErrConfigFileMalformed is returned when a config file exists but fails
	// to parse as YAML.
	ErrConfigFileMalformed = errors.New("config: malformed configuration file")
)
