// Package config resolves CLI flags and an optional YAML defaults file
// into the crawler's immutable, validated run configuration.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default values for options that have one.
const (
	DefaultMaxDepth   = 3
	DefaultMaxRetries = 0
	DefaultMaxThreads = 10
	DefaultFailSleep  = 1 * time.Second
)

// Options holds every flag the CLI accepts, already defaulted by cobra
// and merged with any YAML defaults file (file values apply only to
// flags the user did not pass explicitly — see MergeFileDefaults).
type Options struct {
	Seeds     []string
	SeedFiles []string

	Recurse    bool
	MaxDepth   int
	MaxRetries int
	Pages      []string

	Proxy         string
	UserAgent     string
	UserAgentFile string
	MaxThreads    int

	StopPattern       string
	StopOn404         bool
	RequeueCloudflare bool

	RecursePattern       []string
	RecurseIgnorePattern []string
	CrossDomains         bool
	Domains              []string
	NoParent             bool
	DepthFirst           bool

	DownloadExtensions []string
	DownloadRegexes    []string
	DownloadWithin     []string

	SearchRegex     []string
	SearchEmails    bool
	SearchMailtos   bool
	EmailNames      string
	EmailNamesLines string

	OutDir    string
	OutURLs   string
	OutEmails string
	OutRegex  string
	OutLog    string

	ConfigFile string
	Debug      bool
}

// Default returns an Options populated with the CLI's documented
// defaults, as if no flags had been passed.
func Default() *Options {
	return &Options{
		MaxDepth:   DefaultMaxDepth,
		MaxRetries: DefaultMaxRetries,
		MaxThreads: DefaultMaxThreads,
	}
}

// MergeFileDefaults overwrites fields in o with values from fc, but only
// for flags the caller reports as not explicitly set (changed reports
// whether the named long flag was passed on the command line).
func MergeFileDefaults(o *Options, fc *FileConfig, changed func(flag string) bool) {
	if fc == nil {
		return
	}

	set := func(flag string, apply func()) {
		if !changed(flag) {
			apply()
		}
	}

	if fc.Recurse != nil {
		set("recurse", func() { o.Recurse = *fc.Recurse })
	}
	if fc.MaxDepth != nil {
		set("max-depth", func() { o.MaxDepth = *fc.MaxDepth })
	}
	if fc.DepthFirst != nil {
		set("depth-first", func() { o.DepthFirst = *fc.DepthFirst })
	}
	if fc.CrossDomains != nil {
		set("cross-domains", func() { o.CrossDomains = *fc.CrossDomains })
	}
	if len(fc.Domains) > 0 {
		set("domains", func() { o.Domains = fc.Domains })
	}
	if fc.NoParent != nil {
		set("no-parent", func() { o.NoParent = *fc.NoParent })
	}
	if len(fc.RecursePattern) > 0 {
		set("recurse-pattern", func() { o.RecursePattern = fc.RecursePattern })
	}
	if len(fc.RecurseIgnorePattern) > 0 {
		set("recurse-ignore-pattern", func() { o.RecurseIgnorePattern = fc.RecurseIgnorePattern })
	}
	if fc.MaxRetries != nil {
		set("max-retries", func() { o.MaxRetries = *fc.MaxRetries })
	}
	if fc.Proxy != nil {
		set("proxy", func() { o.Proxy = *fc.Proxy })
	}
	if fc.UserAgent != nil {
		set("user-agent", func() { o.UserAgent = *fc.UserAgent })
	}
	if fc.UserAgentFile != nil {
		set("user-agent-file", func() { o.UserAgentFile = *fc.UserAgentFile })
	}
	if fc.MaxThreads != nil {
		set("max-threads", func() { o.MaxThreads = *fc.MaxThreads })
	}
	if fc.StopPattern != nil {
		set("stop-pattern", func() { o.StopPattern = *fc.StopPattern })
	}
	if fc.StopOn404 != nil {
		set("stop-on-404", func() { o.StopOn404 = *fc.StopOn404 })
	}
	if fc.RequeueCloudflare != nil {
		set("requeue-cloudflare", func() { o.RequeueCloudflare = *fc.RequeueCloudflare })
	}
	if len(fc.SearchRegex) > 0 {
		set("search-regex", func() { o.SearchRegex = fc.SearchRegex })
	}
	if fc.SearchEmails != nil {
		set("search-emails", func() { o.SearchEmails = *fc.SearchEmails })
	}
	if fc.SearchMailtos != nil {
		set("search-mailtos", func() { o.SearchMailtos = *fc.SearchMailtos })
	}
	if fc.EmailNames != nil {
		set("email-names", func() { o.EmailNames = *fc.EmailNames })
	}
	if fc.EmailNamesLines != nil {
		set("email-names-lines", func() { o.EmailNamesLines = *fc.EmailNamesLines })
	}
	if len(fc.DownloadExtensions) > 0 {
		set("download-extension", func() { o.DownloadExtensions = fc.DownloadExtensions })
	}
	if len(fc.DownloadRegexes) > 0 {
		set("download-regex", func() { o.DownloadRegexes = fc.DownloadRegexes })
	}
	if len(fc.DownloadWithin) > 0 {
		set("download-within", func() { o.DownloadWithin = fc.DownloadWithin })
	}
	if fc.OutDir != nil {
		set("out-dir", func() { o.OutDir = *fc.OutDir })
	}
	if fc.OutURLs != nil {
		set("out-urls", func() { o.OutURLs = *fc.OutURLs })
	}
	if fc.OutEmails != nil {
		set("out-emails", func() { o.OutEmails = *fc.OutEmails })
	}
	if fc.OutRegex != nil {
		set("out-regex", func() { o.OutRegex = *fc.OutRegex })
	}
	if fc.OutLog != nil {
		set("out-log", func() { o.OutLog = *fc.OutLog })
	}
}

// Config is the immutable, validated configuration for one crawl run.
// Every regex option has already been compiled; New returns an error
// instead of a Config if any pattern fails to compile or a structural
// requirement (seeds present, an output method selected) is unmet.
type Config struct {
	Seeds      []string
	PageRanges []string

	Recurse    bool
	MaxDepth   int
	DepthFirst bool
	MaxRetries int
	FailSleep  time.Duration

	CrossDomains bool
	Domains      map[string]bool
	NoParent     bool

	Proxy         string
	UserAgent     string
	UserAgentFile string
	MaxThreads    int

	StopPattern       *regexp.Regexp
	StopOn404         bool
	RequeueCloudflare bool

	RecursePattern       []*regexp.Regexp
	RecurseIgnorePattern []*regexp.Regexp

	DownloadExtensions map[string]bool
	DownloadRegexes    []*regexp.Regexp
	DownloadWithin     []string

	SearchRegex   []*regexp.Regexp
	SearchEmails  bool
	SearchMailtos bool

	EmailNames      *regexp.Regexp
	EmailNamesSet   bool
	EmailNamesStart int
	EmailNamesEnd   int

	OutDir    string
	OutURLs   string
	OutEmails string
	OutRegex  string
	OutLog    string

	Debug bool
}

// SelectiveDownload reports whether any of the three download-qualifying
// rules was configured. When false, every URL qualifies for download.
func (c *Config) SelectiveDownload() bool {
	return len(c.DownloadExtensions) > 0 || len(c.DownloadRegexes) > 0 || len(c.DownloadWithin) > 0
}

// New validates o and compiles every regex option, returning the
// immutable Config the rest of the engine consumes.
func New(o *Options) (*Config, error) {
	if len(o.Seeds) == 0 && len(o.SeedFiles) == 0 {
		return nil, ErrNoSeeds
	}
	if o.OutDir == "" && o.OutURLs == "" && o.OutEmails == "" && o.OutRegex == "" {
		return nil, ErrNoOutput
	}
	if o.MaxThreads <= 0 {
		return nil, ErrInvalidMaxThreads
	}
	if o.MaxDepth < 0 {
		return nil, ErrInvalidMaxDepth
	}

	c := &Config{
		Seeds:              o.Seeds,
		PageRanges:         o.Pages,
		Recurse:            o.Recurse,
		MaxDepth:           o.MaxDepth,
		DepthFirst:         o.DepthFirst,
		MaxRetries:         o.MaxRetries,
		FailSleep:          DefaultFailSleep,
		CrossDomains:       o.CrossDomains,
		Domains:            toSet(o.Domains),
		NoParent:           o.NoParent,
		Proxy:              o.Proxy,
		UserAgent:          o.UserAgent,
		UserAgentFile:      o.UserAgentFile,
		MaxThreads:         o.MaxThreads,
		StopOn404:          o.StopOn404,
		RequeueCloudflare:  o.RequeueCloudflare,
		DownloadExtensions: toSet(trimDots(o.DownloadExtensions)),
		DownloadWithin:     o.DownloadWithin,
		SearchEmails:       o.SearchEmails,
		SearchMailtos:      o.SearchMailtos,
		OutDir:             o.OutDir,
		OutURLs:            o.OutURLs,
		OutEmails:          o.OutEmails,
		OutRegex:           o.OutRegex,
		OutLog:             o.OutLog,
		Debug:              o.Debug,
	}

	var err error
	if o.StopPattern != "" {
		if c.StopPattern, err = regexp.Compile(o.StopPattern); err != nil {
			return nil, fmt.Errorf("config: --stop-pattern: %w", err)
		}
	}
	if c.RecursePattern, err = compileAll(o.RecursePattern); err != nil {
		return nil, fmt.Errorf("config: --recurse-pattern: %w", err)
	}
	if c.RecurseIgnorePattern, err = compileAll(o.RecurseIgnorePattern); err != nil {
		return nil, fmt.Errorf("config: --recurse-ignore-pattern: %w", err)
	}
	if c.SearchRegex, err = compileAll(o.SearchRegex); err != nil {
		return nil, fmt.Errorf("config: --search-regex: %w", err)
	}
	if c.DownloadRegexes, err = compileAllCaseInsensitive(o.DownloadRegexes); err != nil {
		return nil, fmt.Errorf("config: --download-regex: %w", err)
	}
	if o.EmailNames != "" {
		if c.EmailNames, err = regexp.Compile(o.EmailNames); err != nil {
			return nil, fmt.Errorf("config: --email-names: %w", err)
		}
	}
	if o.EmailNamesLines != "" {
		start, end, perr := parseEmailNamesLines(o.EmailNamesLines)
		if perr != nil {
			return nil, fmt.Errorf("config: --email-names-lines: %w", perr)
		}
		c.EmailNamesSet = true
		c.EmailNamesStart = start
		c.EmailNamesEnd = end
	}

	return c, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func compileAllCaseInsensitive(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}

// parseEmailNamesLines parses "start [end]" into a clamp window. A
// single value defaults end to start.
func parseEmailNamesLines(raw string) (start, end int, err error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("expected \"start [end]\", got %q", raw)
	}

	start, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start %q: %w", fields[0], err)
	}

	if len(fields) == 1 {
		return start, start, nil
	}

	end, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end %q: %w", fields[1], err)
	}
	return start, end, nil
}
