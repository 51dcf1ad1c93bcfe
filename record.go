package daylog

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/daylog/formatter"
)

const traceHeader = "\nError Trace:\n"

// Write enqueues a message at level. A non-nil cause, or the Error level, appends a backtrace.
// It never fails the caller: filtered entries and a disabled logger report true,
// false means the entry was not queued (queue full, not initialized or shut down).
func (l *Logger) Write(level, message string, cause error) bool {
	if l.state.LoggerDisabled.Load() {
		return true
	}

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		l.state.DroppedLogs.Add(1)
		return false
	}

	level = NormalizeLevel(level)
	if !l.filter.Load().Admit(level) {
		return true
	}

	return l.enqueue(l.buildEntry(level, message, cause))
}

// Admits reports whether an entry at level would be queued
func (l *Logger) Admits(level string) bool {
	if l.state.LoggerDisabled.Load() || !l.state.IsInitialized.Load() {
		return false
	}
	return l.filter.Load().Admit(level)
}

// buildEntry creates an entry from an already normalized level
func (l *Logger) buildEntry(level, message string, cause error) Entry {
	if cause != nil || level == LevelError {
		message += traceHeader + l.trace(cause)
	}

	t := l.now()
	return Entry{
		Message: message,
		Level:   level,
		Time:    t,
		DateKey: DateKey(t),
	}
}

// enqueue pushes to the queue, counting rejected entries
func (l *Logger) enqueue(e Entry) bool {
	q := l.getQueue()
	if q == nil || !q.Push(e) {
		l.state.DroppedLogs.Add(1)
		return false
	}
	return true
}

// log renders args only for admitted levels
func (l *Logger) log(level string, args ...any) {
	if !l.Admits(level) {
		return
	}
	l.Write(level, formatter.FormatArgs(args...), firstError(args))
}

// firstError returns the first error in args, used as failure context
func firstError(args []any) error {
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			return err
		}
	}
	return nil
}

// internalLog writes a diagnostic line to the fallback writer.
// Core errors are always reported, other levels only when internal_errors_to_stderr is set.
func (l *Logger) internalLog(level string, format string, args ...any) {
	cfg := l.getConfig()
	if level != LevelCoreError && !cfg.InternalErrorsToStderr {
		return
	}

	if !l.diag.Allow() {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if !strings.HasPrefix(msg, "daylog: ") {
		msg = "daylog: " + msg
	}
	date := formatter.NewDateFunc(cfg.Format)(time.Now())

	l.diagMu.Lock()
	defer l.diagMu.Unlock()
	fmt.Fprintf(l.errOut, "[%s] [%s] %s\n", date, level, msg)
}
