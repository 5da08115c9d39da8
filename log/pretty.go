package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// prettyHandler writes colorized key=value lines.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.write(buf, slog.Time(slog.TimeKey, r.Time), nil)
	}

	h.write(buf, slog.Any(slog.LevelKey, r.Level), nil)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.write(buf, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)), nil)
		}
	}

	h.write(buf, slog.String(slog.MessageKey, r.Message), nil)

	for _, a := range h.attrs {
		h.write(buf, a, h.groups)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.write(buf, a, h.groups)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)

	return &clone
}

func (h *prettyHandler) write(buf *bytes.Buffer, a slog.Attr, groups []string) {
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
	}

	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string{}, groups...), a.Key)
		}

		for _, ga := range a.Value.Group() {
			h.write(buf, ga, sub)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	key := a.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}

	switch a.Key {
	case slog.TimeKey:
		buf.WriteString(colorGray + a.Value.String() + colorReset)

	case slog.LevelKey:
		buf.WriteString(levelColor(a.Value.String()) + a.Value.String() + colorReset)

	case slog.MessageKey:
		buf.WriteString(a.Value.String())

	default:
		buf.WriteString(colorGray + key + "=" + colorReset)
		buf.WriteString(valueColor(a.Value) + valueString(a.Value) + colorReset)
	}
}

func levelColor(level string) string {
	switch level {
	case "TRACE", "DEBUG":
		return colorBlue
	case "WARN":
		return colorYellow
	case "ERROR":
		return colorRed
	default:
		return colorGreen
	}
}

func valueColor(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return colorCyan
	case slog.KindBool, slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return colorYellow
	default:
		return colorReset
	}
}

func valueString(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && needsQuote(s) {
		return strconv.Quote(s)
	}

	return s
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r > '~' {
			return true
		}
	}

	return false
}
