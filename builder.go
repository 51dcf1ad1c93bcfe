package daylog

import (
	"errors"
	"io"
	"time"
)

// Option customizes collaborators of a Logger
type Option func(*Logger)

// WithQueue replaces the default channel queue shared by producers and the engine
func WithQueue(q Queue) Option {
	return func(l *Logger) {
		if q != nil {
			l.queue = q
		}
	}
}

// WithClock sets the time source used for entry timestamps and the initial file date
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithTracer sets the backtrace renderer for error-class entries
func WithTracer(trace TraceFunc) Option {
	return func(l *Logger) {
		if trace != nil {
			l.trace = trace
		}
	}
}

// WithErrorOutput sets the fallback writer for internal diagnostics
func WithErrorOutput(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.errOut = w
		}
	}
}

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
// An unusable directory still returns the logger, disabled, alongside an error wrapping ErrDisabled.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger(b.opts...)

	if err := logger.ApplyConfig(b.cfg); err != nil {
		if errors.Is(err, ErrDisabled) {
			return logger, err
		}
		return nil, err
	}

	return logger, nil
}

// Config returns a copy of the configuration built so far
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Levels sets the accepted levels.
func (b *Builder) Levels(levels ...string) *Builder {
	b.cfg.Levels = append([]string(nil), levels...)
	return b
}

// DateFormat sets the timestamp pattern.
func (b *Builder) DateFormat(pattern string) *Builder {
	b.cfg.Format = pattern
	return b
}

// FileMode sets the permission bits of created files.
func (b *Builder) FileMode(mode int64) *Builder {
	b.cfg.FileMode = mode
	return b
}

// BufferSize sets the default queue capacity.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// AutoFlushCount sets the number of writes forcing a sync.
func (b *Builder) AutoFlushCount(count int64) *Builder {
	b.cfg.AutoFlushCount = count
	return b
}

// PollInterval sets the idle wait between queue polls.
func (b *Builder) PollInterval(d time.Duration) *Builder {
	b.cfg.PollIntervalMs = d.Milliseconds()
	return b
}

// SyncInterval sets the max time between syncs while writes are pending.
func (b *Builder) SyncInterval(d time.Duration) *Builder {
	b.cfg.SyncIntervalMs = d.Milliseconds()
	return b
}

// RetentionDays sets how many days of files are kept.
func (b *Builder) RetentionDays(days int64) *Builder {
	b.cfg.RetentionDays = days
	return b
}

// HeartbeatIntervalS sets the heartbeat interval, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Override applies "key=value" strings, the first failure is reported by Build.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = ApplyOverrides(b.cfg, overrides...)
	return b
}

// With adds logger options.
func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Example usage:
// logger, err := daylog.NewBuilder().
//
//	Directory("/var/log/app").
//	Levels("info", "warning", "error").
//	AutoFlushCount(500).
//	Build()
//
// if err == nil {
//
//	 logger.Start()
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
