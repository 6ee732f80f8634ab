package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spindle-crawl/spindle/internal/config"
	"github.com/spindle-crawl/spindle/internal/engine"
	"github.com/spindle-crawl/spindle/internal/fetcher"
	"github.com/spindle-crawl/spindle/internal/frontier"
	"github.com/spindle-crawl/spindle/internal/output"
	"github.com/spindle-crawl/spindle/internal/spiderurl"
	"github.com/spindle-crawl/spindle/internal/useragent"
	"github.com/spindle-crawl/spindle/internal/xlog"
)

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	o, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}

	fc, err := loadFileConfig(o)
	if err != nil {
		return err
	}
	if fc != nil {
		config.MergeFileDefaults(o, fc, cmd.Flags().Changed)
	}

	cfg, err := config.New(o)
	if err != nil {
		return err
	}

	logOut, closeLog, err := resolveLogWriter(cfg.OutLog)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := xlog.New(logOut, cfg.Debug)

	if cfg.UserAgentFile != "" && cfg.UserAgent == "" {
		picked, err := useragent.Pick(cfg.UserAgentFile)
		if err != nil {
			return err
		}
		cfg.UserAgent = picked
		logger.Debug("picked user agent", "user_agent", cfg.UserAgent)
	}
	if cfg.Proxy != "" {
		logger.Debug("using proxy", "proxy", xlog.SafeProxyURL(cfg.Proxy))
	}

	sinks, closeSinks, err := resolveSinks(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	fch, err := fetcher.New(cfg.Proxy, cfg.UserAgent, cfg.MaxRetries, cfg.FailSleep)
	if err != nil {
		return err
	}

	rawSeeds, err := gatherSeeds(cfg.Seeds, o.SeedFiles)
	if err != nil {
		return err
	}
	expanded, err := engine.ExpandSeeds(rawSeeds, cfg.PageRanges)
	if err != nil {
		return err
	}
	seeds, err := parseSeeds(expanded)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	ftr := frontier.New(cfg.DepthFirst)
	controller := engine.New(cfg, ftr, fch, sinks, logger)

	logger.Info("starting crawl", "seeds", len(seeds), "max_threads", cfg.MaxThreads, "recurse", cfg.Recurse)
	stats := controller.Run(ctx, seeds)
	logger.Info("crawl finished",
		"pages_fetched", stats.PagesFetched,
		"elapsed", stats.Elapsed.String(),
		"stop_pattern_reached", stats.StopPatternReached,
	)

	return writeSummary(cfg, len(seeds), stats)
}

// buildOptions reads every flag registered by registerCrawlFlags into an
// Options, seeding it from the documented CLI defaults first.
func buildOptions(cmd *cobra.Command, args []string) (*config.Options, error) {
	o := config.Default()
	f := cmd.Flags()

	var err error
	o.Seeds = args
	if o.SeedFiles, err = f.GetStringArray("file"); err != nil {
		return nil, err
	}

	if o.Recurse, err = f.GetBool("recurse"); err != nil {
		return nil, err
	}
	if o.MaxDepth, err = f.GetInt("max-depth"); err != nil {
		return nil, err
	}
	if o.MaxRetries, err = f.GetInt("max-retries"); err != nil {
		return nil, err
	}
	if o.Pages, err = f.GetStringArray("pages"); err != nil {
		return nil, err
	}
	if o.Proxy, err = f.GetString("proxy"); err != nil {
		return nil, err
	}
	if o.UserAgent, err = f.GetString("user-agent"); err != nil {
		return nil, err
	}
	if o.UserAgentFile, err = f.GetString("user-agent-file"); err != nil {
		return nil, err
	}
	if o.MaxThreads, err = f.GetInt("max-threads"); err != nil {
		return nil, err
	}
	if o.StopPattern, err = f.GetString("stop-pattern"); err != nil {
		return nil, err
	}
	if o.StopOn404, err = f.GetBool("stop-on-404"); err != nil {
		return nil, err
	}
	if o.RequeueCloudflare, err = f.GetBool("requeue-cloudflare"); err != nil {
		return nil, err
	}
	if o.RecursePattern, err = f.GetStringArray("recurse-pattern"); err != nil {
		return nil, err
	}
	if o.RecurseIgnorePattern, err = f.GetStringArray("recurse-ignore-pattern"); err != nil {
		return nil, err
	}
	if o.CrossDomains, err = f.GetBool("cross-domains"); err != nil {
		return nil, err
	}
	if o.Domains, err = f.GetStringArray("domains"); err != nil {
		return nil, err
	}
	if o.NoParent, err = f.GetBool("no-parent"); err != nil {
		return nil, err
	}
	if o.DepthFirst, err = f.GetBool("depth-first"); err != nil {
		return nil, err
	}

	if o.DownloadExtensions, err = f.GetStringArray("download-extension"); err != nil {
		return nil, err
	}
	if o.DownloadRegexes, err = f.GetStringArray("download-regex"); err != nil {
		return nil, err
	}
	if o.DownloadWithin, err = f.GetStringArray("download-within"); err != nil {
		return nil, err
	}

	if o.SearchRegex, err = f.GetStringArray("search-regex"); err != nil {
		return nil, err
	}
	if o.SearchEmails, err = f.GetBool("search-emails"); err != nil {
		return nil, err
	}
	if o.SearchMailtos, err = f.GetBool("search-mailtos"); err != nil {
		return nil, err
	}
	if o.EmailNames, err = f.GetString("email-names"); err != nil {
		return nil, err
	}
	if o.EmailNamesLines, err = f.GetString("email-names-lines"); err != nil {
		return nil, err
	}

	if o.OutDir, err = f.GetString("out-dir"); err != nil {
		return nil, err
	}
	if o.OutURLs, err = f.GetString("out-urls"); err != nil {
		return nil, err
	}
	if o.OutEmails, err = f.GetString("out-emails"); err != nil {
		return nil, err
	}
	if o.OutRegex, err = f.GetString("out-regex"); err != nil {
		return nil, err
	}
	if o.OutLog, err = f.GetString("out-log"); err != nil {
		return nil, err
	}
	if o.ConfigFile, err = f.GetString("config"); err != nil {
		return nil, err
	}
	if o.Debug, err = f.GetBool("debug"); err != nil {
		return nil, err
	}

	return o, nil
}

// loadFileConfig resolves and loads the optional YAML defaults file. An
// explicitly-named file that doesn't exist is an error; a default
// location that doesn't exist is silently skipped.
func loadFileConfig(o *config.Options) (*config.FileConfig, error) {
	path := config.FindConfigFile(o.ConfigFile)
	if path == "" {
		return nil, nil
	}
	fc, err := config.LoadFileConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if fc == nil && o.ConfigFile != "" {
		return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}
	return fc, nil
}

// gatherSeeds combines positional URLs (already in seeds) with every
// newline-delimited URL read from the -f/--file paths.
func gatherSeeds(seeds []string, seedFiles []string) ([]string, error) {
	all := append([]string{}, seeds...)
	for _, path := range seedFiles {
		f, err := os.Open(path) //nolint:gosec // explicit, user-chosen path
		if err != nil {
			return nil, fmt.Errorf("seed file %s: %w", path, err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				all = append(all, line)
			}
		}
		scanErr := scanner.Err()
		f.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("seed file %s: %w", path, scanErr)
		}
	}
	return all, nil
}

// parseSeeds normalizes every raw seed into an absolute URL with a
// supported scheme.
func parseSeeds(raw []string) ([]*url.URL, error) {
	out := make([]*url.URL, 0, len(raw))
	for _, s := range raw {
		u, err := spiderurl.Normalize(s, nil)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", s, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// resolveLogWriter opens cfg.OutLog if set, falling back to stderr.
// The returned close function is always safe to call.
func resolveLogWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("out-log: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // not a secret
	if err != nil {
		return nil, nil, fmt.Errorf("out-log: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// resolveSinks opens the urls/regex/emails writers named by cfg,
// defaulting regex and emails to stdout when left unset, per §4.6, and
// leaving urls disabled (nil) when unset. "-" means stdout explicitly
// for any of the three.
func resolveSinks(cfg *config.Config) (*output.Sinks, func(), error) {
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	urls, closer, err := openLineSink(cfg.OutURLs, nil)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("out-urls: %w", err)
	}
	closers = append(closers, closer)

	regex, closer, err := openLineSink(cfg.OutRegex, os.Stdout)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("out-regex: %w", err)
	}
	closers = append(closers, closer)

	emails, closer, err := openLineSink(cfg.OutEmails, os.Stdout)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("out-emails: %w", err)
	}
	closers = append(closers, closer)

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("out-dir: %w", err)
		}
	}

	return output.New(urls, regex, emails, cfg.OutDir), closeAll, nil
}

// openLineSink resolves one of the out-urls/out-regex/out-emails flag
// values into an io.Writer: "" disables the sink unless fallback is
// non-nil, in which case fallback is used; "-" means stdout; anything
// else is a file path opened for append-from-truncate.
func openLineSink(path string, fallback io.Writer) (io.Writer, func(), error) {
	switch path {
	case "":
		return fallback, func() {}, nil
	case "-":
		return os.Stdout, func() {}, nil
	default:
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // not a secret
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
}

// writeSummary renders the run recap per §4.6: to <out-log-dir>/summary.md
// when --out-log was set, to stdout when --debug was passed without
// --out-log, and suppressed otherwise.
func writeSummary(cfg *config.Config, seedCount int, stats output.RunStats) error {
	switch {
	case cfg.OutLog != "":
		path := filepath.Join(filepath.Dir(cfg.OutLog), "summary.md")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // not a secret
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		defer f.Close()
		return output.WriteSummary(f, seedCount, stats)
	case cfg.Debug:
		return output.WriteSummary(os.Stdout, seedCount, stats)
	default:
		return nil
	}
}
