package output

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// RunStats accumulates the counters the end-of-run summary reports.
// Every counter is updated with atomic adds from worker goroutines;
// Elapsed and StopPatternReached are set by the Controller once its loop
// has exited, and it reads the struct only after the pool has drained.
type RunStats struct {
	PagesFetched       int64
	PagesDownloaded    int64
	RegexMatches       int64
	EmailsFound        int64
	NotFoundCount      int64
	CloudflareCount    int64
	OtherFailureCount  int64
	RetryCount         int64
	Elapsed            time.Duration
	StopPatternReached bool
}

// WriteSummary renders stats as a Markdown run recap: a header table
// followed by a counts table, built fluently with nao1215/markdown
// rather than hand-formatted strings.
func WriteSummary(w io.Writer, seedCount int, stats RunStats) error {
	md := markdown.NewMarkdown(w)

	md.H1("Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds", strconv.Itoa(seedCount)},
			{"Elapsed", stats.Elapsed.Round(time.Millisecond).String()},
			{"Stop pattern reached", strconv.FormatBool(stats.StopPatternReached)},
		},
	})
	md.PlainText("")

	md.H2("Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages fetched", strconv.FormatInt(stats.PagesFetched, 10)},
			{"Pages downloaded", strconv.FormatInt(stats.PagesDownloaded, 10)},
			{"Regex matches", strconv.FormatInt(stats.RegexMatches, 10)},
			{"Emails found", strconv.FormatInt(stats.EmailsFound, 10)},
			{"404 responses", strconv.FormatInt(stats.NotFoundCount, 10)},
			{"Cloudflare challenges", strconv.FormatInt(stats.CloudflareCount, 10)},
			{"Other failures", strconv.FormatInt(stats.OtherFailureCount, 10)},
			{"Retries", strconv.FormatInt(stats.RetryCount, 10)},
		},
	})
	md.PlainText("")

	return md.Build()
}
