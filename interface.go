package daylog

// Logger instance methods for logging at the common levels.
// Arguments are joined with spaces, the first error argument becomes the backtrace cause.

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) {
	l.log(LevelDebug, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(args ...any) {
	l.log(LevelInfo, args...)
}

// Notice logs a message at notice level.
func (l *Logger) Notice(args ...any) {
	l.log(LevelNotice, args...)
}

// Warning logs a message at warning level.
func (l *Logger) Warning(args ...any) {
	l.log(LevelWarning, args...)
}

// Error logs a message at error level, always with a backtrace.
func (l *Logger) Error(args ...any) {
	l.log(LevelError, args...)
}

// Log logs a message at an arbitrary level name.
func (l *Logger) Log(level string, args ...any) {
	l.log(NormalizeLevel(level), args...)
}
