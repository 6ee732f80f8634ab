// Package engine implements the Controller: the dispatch loop that ties
// the frontier, worker pool, fetcher, analyzer, admission filter, and
// output sinks together. It selects on ctx.Done before each unit of
// work, logs each step, and never lets one step's error abort the whole
// run, driving a bounded, continuously-refilled worker pool instead of a
// fixed ordered list of steps.
package engine

import (
	"context"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/spindle-crawl/spindle/internal/admission"
	"github.com/spindle-crawl/spindle/internal/analyzer"
	"github.com/spindle-crawl/spindle/internal/config"
	"github.com/spindle-crawl/spindle/internal/fetcher"
	"github.com/spindle-crawl/spindle/internal/frontier"
	"github.com/spindle-crawl/spindle/internal/output"
	"github.com/spindle-crawl/spindle/internal/pool"
	"github.com/spindle-crawl/spindle/pkg/binaryext"
)

// Controller runs one crawl from a seed list to completion.
type Controller struct {
	cfg     *config.Config
	ftr     *frontier.Frontier
	fch     *fetcher.Fetcher
	sinks   *output.Sinks
	logger  *slog.Logger
	policy  admission.Policy
	anaOpts analyzer.Options

	stopReached atomic.Bool
	stats       output.RunStats
}

// New builds a Controller from a validated Config and its injected
// capabilities.
func New(cfg *config.Config, ftr *frontier.Frontier, fch *fetcher.Fetcher, sinks *output.Sinks, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:    cfg,
		ftr:    ftr,
		fch:    fch,
		sinks:  sinks,
		logger: logger,
		policy: admission.Policy{
			RecursePattern:       cfg.RecursePattern,
			RecurseIgnorePattern: cfg.RecurseIgnorePattern,
			NoParent:             cfg.NoParent,
			CrossDomains:         cfg.CrossDomains,
			Domains:              cfg.Domains,
		},
		anaOpts: analyzer.Options{
			StopPattern:     cfg.StopPattern,
			SearchRegex:     cfg.SearchRegex,
			SearchEmails:    cfg.SearchEmails,
			SearchMailtos:   cfg.SearchMailtos,
			EmailNames:      cfg.EmailNames,
			EmailNamesSet:   cfg.EmailNamesSet,
			EmailNamesStart: cfg.EmailNamesStart,
			EmailNamesEnd:   cfg.EmailNamesEnd,
		},
	}
}

// Run submits seeds and drives the dispatch loop until the frontier is
// empty or soft-stop has drained it, submitting at most MaxThreads+2
// items per iteration (§5 backpressure) over a pool bounded to
// MaxThreads concurrent fetches.
func (c *Controller) Run(ctx context.Context, seeds []*url.URL) output.RunStats {
	start := time.Now()

	for _, s := range seeds {
		depth := 0
		if c.cfg.Recurse {
			depth = c.cfg.MaxDepth
		}
		c.ftr.Submit(s, depth)
	}

	limit := c.cfg.MaxThreads + 2

	for {
		if c.stopReached.Load() {
			c.ftr.Clear()
		}

		batch := c.ftr.Take(limit)
		if len(batch) == 0 {
			break
		}

		// A fresh Pool per round: errgroup.Group.Wait cancels its bundled
		// context unconditionally, so reusing one Pool (and its derived
		// context) across rounds would abort every round after the first.
		p := pool.New(c.cfg.MaxThreads)
		for _, item := range batch {
			item := item
			key := frontier.Key(item.URL)
			if !c.ftr.MarkSeen(key) {
				// Already dispatched by a concurrent duplicate submission.
				continue
			}
			p.Go(func() error {
				c.process(ctx, item)
				return nil
			})
		}

		if err := p.Wait(); err != nil {
			c.logger.Warn("dispatch round ended early", "error", err)
			break
		}

		select {
		case <-ctx.Done():
			c.ftr.Clear()
		default:
		}
	}

	c.stats.Elapsed = time.Since(start)
	c.stats.StopPatternReached = c.stopReached.Load()
	return c.stats
}

// process fetches and analyzes one frontier item. Errors are logged and
// swallowed here rather than aborting the run.
func (c *Controller) process(ctx context.Context, item frontier.Item) {
	select {
	case <-ctx.Done():
		return
	default:
	}
	if c.stopReached.Load() {
		// Soft-stop fired before this task started: drop it unfetched.
		return
	}

	target := item.URL.String()
	selective := c.cfg.SelectiveDownload()
	qualifies := !selective || output.Qualifies(item.URL.Path, c.cfg.DownloadExtensions, c.cfg.DownloadRegexes, c.cfg.DownloadWithin)

	if selective && !qualifies && binaryext.Is(item.URL.Path) {
		c.logger.Debug("skipping binary extension", "url", target)
		return
	}

	res := c.fch.Fetch(ctx, target)
	if res.Retries > 0 {
		atomic.AddInt64(&c.stats.RetryCount, int64(res.Retries))
	}
	if res.Err != nil {
		c.logger.Warn("fetch failed", "url", target, "error", res.Err)
		atomic.AddInt64(&c.stats.OtherFailureCount, 1)
		return
	}

	switch res.Class {
	case fetcher.ClassOK:
		c.handleOK(item, res, qualifies)
	case fetcher.ClassNotFound:
		atomic.AddInt64(&c.stats.NotFoundCount, 1)
		c.logger.Info("404 response", "url", target)
		if c.cfg.StopOn404 {
			c.stopReached.Store(true)
		}
	case fetcher.ClassCloudflare:
		atomic.AddInt64(&c.stats.CloudflareCount, 1)
		if c.cfg.RequeueCloudflare {
			c.logger.Info("requeueing cloudflare challenge", "url", target)
			c.ftr.Requeue(frontier.Key(item.URL), item.URL, item.Depth)
		} else {
			c.logger.Warn("cloudflare challenge, not requeued", "url", target)
		}
	case fetcher.ClassForbidden, fetcher.ClassOther:
		atomic.AddInt64(&c.stats.OtherFailureCount, 1)
		c.logger.Warn("non-200 response", "url", target, "status", res.StatusCode)
	}
}

func (c *Controller) handleOK(item frontier.Item, res fetcher.Result, qualifies bool) {
	atomic.AddInt64(&c.stats.PagesFetched, 1)
	if err := c.sinks.WriteURL(item.URL.String()); err != nil {
		c.logger.Warn("write out_urls failed", "error", err)
	}

	if c.sinks.DownloadEnabled() && qualifies {
		u := item.URL
		if err := c.sinks.WriteBlob(u.Host, u.Path, u.RawQuery, u.Fragment, res.Body); err != nil {
			c.logger.Warn("write download failed", "url", u.String(), "error", err)
		} else {
			atomic.AddInt64(&c.stats.PagesDownloaded, 1)
		}
	}

	if !analyzer.Gate(res.ContentType) {
		return
	}

	result := analyzer.Analyze(res.Body, res.ContentType, item.URL.String(), c.anaOpts, c.stopReached.Load())
	if result.StopMatched {
		c.stopReached.Store(true)
		c.logger.Info("stop pattern matched", "url", item.URL.String())
	}

	for _, hit := range result.RegexHits {
		atomic.AddInt64(&c.stats.RegexMatches, 1)
		if err := c.sinks.WriteRegex(hit.Formatted); err != nil {
			c.logger.Warn("write out_regex failed", "error", err)
		}
	}
	for _, hit := range result.EmailHits {
		atomic.AddInt64(&c.stats.EmailsFound, 1)
		if err := c.sinks.WriteEmail(analyzer.FormatEmail(hit)); err != nil {
			c.logger.Warn("write out_emails failed", "error", err)
		}
	}

	if item.Depth > 0 && !c.stopReached.Load() {
		for _, link := range result.Links {
			admission.Consider(link.Raw, item.URL, item.Depth, c.policy, c.ftr)
		}
	}
}
