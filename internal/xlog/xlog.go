// Package xlog provides the crawler's structured logging, built on
// log/slog with a handler that redacts credentials before they reach
// log output. The sensitive surface here is narrow: the only secrets a
// spider run can leak into logs are credentials embedded in a fetched
// URL's userinfo and the configured proxy URL, so RedactingHandler only
// masks those two shapes.
package xlog

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
)

// MaskValue replaces a redacted value in log output.
const MaskValue = "***REDACTED***"

var userinfoPattern = regexp.MustCompile(`://[^/@\s]+:[^/@\s]+@`)

// RedactingHandler wraps an slog.Handler and masks userinfo credentials
// that appear in string attribute values (typically "url" or "proxy"
// attributes carrying a user:pass@host URL).
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps handler. If handler is nil, slog.Default's
// handler is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it through.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs redacts and forwards the attached attributes.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(out)}
}

// WithGroup forwards group naming to the wrapped handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = h.redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactURL(a.Value.String()))
	}
	return a
}

// RedactURL masks embedded "user:pass@" credentials in s, leaving the
// rest of the string (scheme, host, path) intact. Strings without
// userinfo are returned unchanged.
func RedactURL(s string) string {
	return userinfoPattern.ReplaceAllString(s, "://"+MaskValue+"@")
}

// New builds a *slog.Logger writing text-formatted, credential-redacted
// records to w. debug raises the level to Debug; otherwise only Info and
// above are emitted.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := NewRedactingHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return slog.New(handler)
}

// SafeProxyURL returns proxy with its userinfo masked, suitable for
// inclusion in logs or the run summary. If proxy does not parse as a URL,
// or parses without userinfo, it is passed through RedactURL instead.
func SafeProxyURL(proxy string) string {
	if proxy == "" {
		return ""
	}
	u, err := url.Parse(proxy)
	if err != nil || u.User == nil {
		return RedactURL(proxy)
	}
	u.User = url.UserPassword(MaskValue, "")
	return u.String()
}
