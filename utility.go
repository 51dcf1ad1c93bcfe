package daylog

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const (
	packagePath   = "github.com/lixenwraith/daylog"
	maxTraceDepth = 32
)

// Backtrace is the default TraceFunc. It lists the cause chain followed by the
// caller's stack, skipping frames that belong to this package.
func Backtrace(cause error) string {
	var sb strings.Builder

	for err, depth := cause, 0; err != nil && depth < maxTraceDepth; err, depth = errors.Unwrap(err), depth+1 {
		fmt.Fprintf(&sb, "Caused by: %T: %s\n", err, err.Error())
	}

	pc := make([]uintptr, maxTraceDepth)
	n := runtime.Callers(2, pc) // skip runtime.Callers and Backtrace
	frames := runtime.CallersFrames(pc[:n])
	idx := 0
	for {
		frame, more := frames.Next()
		if !isInternalFrame(frame) {
			fmt.Fprintf(&sb, "#%d %s(%d): %s\n", idx, frame.File, frame.Line, shortFuncName(frame.Function))
			idx++
		}
		if !more {
			break
		}
	}
	if idx == 0 {
		sb.WriteString("#0 (unknown)\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// isInternalFrame reports frames from the logger itself, test files excluded
func isInternalFrame(frame runtime.Frame) bool {
	if strings.HasSuffix(frame.File, "_test.go") {
		return false
	}
	return strings.HasPrefix(frame.Function, packagePath+".")
}

// shortFuncName strips the directory part of a fully qualified function name
func shortFuncName(fn string) string {
	if fn == "" {
		return "(unknown)"
	}
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return errors.Join(err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// splitList splits a comma separated list, dropping empty items
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
