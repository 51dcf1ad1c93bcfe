package daylog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeLevel lowercases level and capitalizes the first letter of each word,
// so "ERROR" becomes "Error" and "core warning" becomes "Core Warning".
func NormalizeLevel(level string) string {
	words := strings.Fields(strings.ToLower(level))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// LevelFilter decides which levels are admitted to the queue
type LevelFilter struct {
	acceptAll bool
	levels    map[string]struct{}
}

// NewLevelFilter builds a filter from a configured level list.
// The severe runtime levels are always accepted, "All" accepts everything.
func NewLevelFilter(levels []string) *LevelFilter {
	f := &LevelFilter{levels: make(map[string]struct{}, len(levels)+len(severeLevels))}
	for _, lvl := range levels {
		f.levels[NormalizeLevel(lvl)] = struct{}{}
	}
	for _, lvl := range severeLevels {
		f.levels[lvl] = struct{}{}
	}
	_, f.acceptAll = f.levels[LevelAll]
	return f
}

// Admit reports whether an entry at level should be enqueued
func (f *LevelFilter) Admit(level string) bool {
	if f.acceptAll {
		return true
	}
	_, ok := f.levels[NormalizeLevel(level)]
	return ok
}

// AcceptAll reports whether the filter is in accept-all mode
func (f *LevelFilter) AcceptAll() bool {
	return f.acceptAll
}

// Levels returns the accepted normalized levels in no particular order
func (f *LevelFilter) Levels() []string {
	out := make([]string, 0, len(f.levels))
	for lvl := range f.levels {
		out = append(out, lvl)
	}
	return out
}
