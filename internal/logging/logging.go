package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgCyan),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed, color.Bold),
}

// New returns a slog.Logger with a friendly, single-line format.
// Verbosity > 0 enables debug-level logs; otherwise only info-level logs emit.
func New(w io.Writer, debug bool, attrs ...any) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := &lineHandler{
		minLevel: level,
		w:        w,
		static:   attrs,
	}
	return slog.New(handler)
}

// lineHandler emits concise lines like:
// [INFO] Creating change set stack="my-bucket-storage"
type lineHandler struct {
	mu       sync.Mutex
	minLevel slog.Level
	w        io.Writer
	static   []any
	prefix   string
}

func (h *lineHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.minLevel
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	label := fmt.Sprintf("[%s]", strings.ToUpper(r.Level.String()))
	if c, ok := levelColors[r.Level]; ok {
		label = c.Sprint(label)
	}
	fmt.Fprintf(&b, "%s %s", label, r.Message)

	attrs := make([]slog.Attr, 0, len(h.static)+r.NumAttrs())
	for i := 0; i+1 < len(h.static); i += 2 {
		attrs = append(attrs, slog.Any(fmt.Sprint(h.static[i]), h.static[i+1]))
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		attrs = append(attrs, a)
		return true
	})
	for _, a := range attrs {
		b.WriteString(" ")
		fmt.Fprintf(&b, "%s=%s", a.Key, formatValue(a.Value))
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String()+"\n")
	return err
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return quoteString(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		return formatAny(v.Any())
	default:
		return fmt.Sprint(v.Any())
	}
}

// quoteString keeps multi-line values readable: diagnostic dumps from the
// CloudFormation API stay verbatim instead of being escaped into one line.
func quoteString(s string) string {
	if strings.Contains(s, "\n") {
		return s
	}
	return strconv.Quote(s)
}

func formatAny(val any) string {
	switch v := val.(type) {
	case string:
		return quoteString(v)
	case fmt.Stringer:
		return quoteString(v.String())
	case error:
		return quoteString(v.Error())
	case time.Time:
		return v.Format(time.RFC3339)
	case time.Duration:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	static := make([]any, 0, len(h.static)+len(attrs)*2)
	static = append(static, h.static...)
	for _, a := range attrs {
		key := a.Key
		if h.prefix != "" {
			key = h.prefix + key
		}
		static = append(static, key, a.Value.Any())
	}
	return &lineHandler{
		minLevel: h.minLevel,
		w:        h.w,
		static:   static,
		prefix:   h.prefix,
	}
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &lineHandler{
		minLevel: h.minLevel,
		w:        h.w,
		static:   h.static,
		prefix:   h.prefix + name + ".",
	}
}
