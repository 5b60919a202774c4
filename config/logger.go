package config

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NewComponentLogger is NewLogger tagged with a component name. Text output
// starts every line with the tag painted in color (no colour when color is
// empty). JSON output carries the tag as a "component" attribute.
func NewComponentLogger(component, color, level, format string, w io.Writer) (*slog.Logger, error) {
	if strings.ToLower(format) == "json" {
		logger, err := NewLogger(level, format, w)
		if err != nil {
			return nil, err
		}
		return logger.With("component", component), nil
	}

	prefix := "[" + component + "] "
	if color != "" {
		prefix = color + "[" + component + "]" + ColorReset + " "
	}
	return NewLogger(level, format, &prefixWriter{w: w, prefix: []byte(prefix)})
}

// prefixWriter prepends prefix to every write. slog handlers emit one record per write.
type prefixWriter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix []byte
	buf    []byte
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf = append(append(p.buf[:0], p.prefix...), b...)
	if _, err := p.w.Write(p.buf); err != nil {
		return 0, err
	}
	return len(b), nil
}
