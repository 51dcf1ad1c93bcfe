package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/daylog"
)

var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat renders printf-style input with "key=%v" or "key: %v" verbs normalized
// to key=value pairs trailing the free text, so lines stay greppable by key.
func parseFormat(format string, args []any) string {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return fmt.Sprintf(format, args...)
	}

	var text []string
	pairs := make([]string, 0, len(matches))
	lastEnd := 0
	argIndex := 0

	for _, match := range matches {
		if prefix := strings.Trim(format[lastEnd:match[0]], " ,;"); prefix != "" {
			text = append(text, prefix)
		}

		key := format[match[2]:match[3]]
		verb := format[match[1]-2 : match[1]]
		pairs = append(pairs, key+"="+fmt.Sprintf(verb, args[argIndex]))
		argIndex++

		lastEnd = match[1]
	}

	if lastEnd < len(format) {
		remaining := strings.TrimSpace(fmt.Sprintf(format[lastEnd:], args[argIndex:]...))
		if remaining = strings.TrimLeft(remaining, ",; "); remaining != "" {
			text = append(text, remaining)
		}
	}

	return strings.TrimSpace(strings.Join(text, " ") + " " + strings.Join(pairs, " "))
}

// StructuredGnetAdapter provides key=value normalization of gnet messages
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(logger *daylog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(logger, opts...),
		extractFields: true,
	}
}

// Debugf logs with structured field extraction
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.structured(daylog.LevelDebug, format, args)
}

// Infof logs with structured field extraction
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.structured(daylog.LevelInfo, format, args)
}

// Warnf logs with structured field extraction
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.structured(daylog.LevelWarning, format, args)
}

// Errorf logs with structured field extraction
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.structured(daylog.LevelError, format, args)
}

func (a *StructuredGnetAdapter) structured(level, format string, args []any) {
	if !a.extractFields {
		a.write(level, fmt.Sprintf(format, args...))
		return
	}
	a.write(level, parseFormat(format, args))
}
