package daylog

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/daylog/formatter"
)

var (
	// ErrNotInitialized is returned by lifecycle calls made before ApplyConfig
	ErrNotInitialized = errors.New("daylog: logger not initialized")
	// ErrNotStarted is returned by Flush when no processor is running
	ErrNotStarted = errors.New("daylog: logger not started")
	// ErrDisabled is wrapped by ApplyConfig when the directory is unusable
	ErrDisabled = errors.New("daylog: logging disabled")

	errAlreadyStarted = errors.New("daylog: processor already running")
	errStopInProgress = errors.New("daylog: stop already in progress")
)

// Logger is the core struct that encapsulates all logger functionality
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	queue      Queue
	queueReady atomic.Bool
	filter     atomic.Pointer[LevelFilter]

	now    func() time.Time
	trace  TraceFunc
	errOut io.Writer
	diagMu sync.Mutex
	diag   *rate.Limiter

	// Consumer-owned, see flushState
	fs        flushState
	formatter *formatter.Formatter

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLogger creates a new Logger instance with default settings.
// The logger must be configured with ApplyConfig before use.
func NewLogger(opts ...Option) *Logger {
	l := &Logger{
		now:    time.Now,
		trace:  Backtrace,
		errOut: os.Stderr,
		diag:   rate.NewLimiter(rate.Limit(diagRatePerSecond), diagBurst),
	}

	l.currentConfig.Store(DefaultConfig())
	l.filter.Store(NewLevelFilter(defaultConfig.Levels))
	l.formatter = formatter.New().DatePattern(defaultConfig.Format)

	l.state.ProcessorExited.Store(true)
	l.state.LoggerStartTime.Store(time.Now())
	l.state.flushRequestChan = make(chan chan struct{}, 1)

	for _, opt := range opts {
		opt(l)
	}
	if l.queue != nil {
		l.queueReady.Store(true)
	}

	return l
}

// ApplyConfig validates and applies a configuration.
// A running processor is stopped (draining the queue) and restarted with the new settings.
// If the directory cannot be created or written, the logger enters disabled mode where
// every write is a silent no-op, and the cause is returned.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	wasStarted := l.state.Started.Load()
	if wasStarted {
		if err := l.Stop(); err != nil {
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	l.currentConfig.Store(cfg)
	l.filter.Store(NewLevelFilter(cfg.Levels))
	l.formatter = formatter.New().DatePattern(cfg.Format)

	if !l.queueReady.Load() {
		l.queue = NewChanQueue(int(cfg.BufferSize))
		l.queueReady.Store(true)
	}

	l.state.ShutdownCalled.Store(false)
	l.state.IsInitialized.Store(true)

	if err := prepareDirectory(cfg.Directory); err != nil {
		l.state.LoggerDisabled.Store(true)
		return fmtErrorf("log directory '%s' unusable: %w: %w", cfg.Directory, ErrDisabled, err)
	}
	l.state.LoggerDisabled.Store(false)

	if wasStarted {
		return l.Start()
	}
	return nil
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// getQueue returns the queue once it is set
func (l *Logger) getQueue() Queue {
	if !l.queueReady.Load() {
		return nil
	}
	return l.queue
}

// Queue returns the entry queue, nil before the first ApplyConfig unless set by WithQueue
func (l *Logger) Queue() Queue {
	return l.getQueue()
}

// Disabled reports whether the logger is in the no-op mode
func (l *Logger) Disabled() bool {
	return l.state.LoggerDisabled.Load()
}

// Start launches the flush engine in its own goroutine. Safe to call multiple times.
// A disabled logger starts nothing and returns nil.
func (l *Logger) Start() error {
	ctx, done, err := l.begin(context.Background())
	if errors.Is(err, errAlreadyStarted) || errors.Is(err, ErrDisabled) {
		return nil
	}
	if err != nil {
		return err
	}

	go func() {
		defer l.end(done)
		// Open failures are reported by the processor itself
		_ = l.processLogs(ctx)
	}()

	return nil
}

// Run executes the flush engine in the calling goroutine until ctx is cancelled,
// then drains the queue and closes the file. It returns the open failure that
// aborted the engine, if any. The engine slot is free again once Run returns.
func (l *Logger) Run(ctx context.Context) error {
	ctx, done, err := l.begin(ctx)
	if err != nil {
		return err
	}
	defer l.end(done)

	return l.processLogs(ctx)
}

// begin claims the single consumer slot
func (l *Logger) begin(parent context.Context) (context.Context, chan struct{}, error) {
	if l.state.LoggerDisabled.Load() {
		return nil, nil, ErrDisabled
	}
	if !l.state.IsInitialized.Load() {
		return nil, nil, ErrNotInitialized
	}
	if l.state.ShutdownCalled.Load() {
		return nil, nil, fmtErrorf("logger already shut down")
	}

	// Stop reads cancel and done under runMu, it must never see a claimed slot with stale handles
	l.runMu.Lock()
	if !l.state.Started.CompareAndSwap(false, true) {
		l.runMu.Unlock()
		return nil, nil, errAlreadyStarted
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.runMu.Unlock()

	l.state.Drained.Store(false)
	l.state.ProcessorFailed.Store(false)
	l.state.ProcessorExited.Store(false)

	return ctx, done, nil
}

// end releases the consumer slot once the processor has returned
func (l *Logger) end(done chan struct{}) {
	l.state.Started.Store(false)
	close(done)
}

// Stop cancels the flush engine and waits for it to drain and close the file.
// Returns nil if already stopped. Default timeout is twice the poll interval, at least one second.
// On timeout the engine keeps the slot until it exits, so Start cannot launch a second one.
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.Load() {
		return nil
	}
	if !l.state.Stopping.CompareAndSwap(false, true) {
		return errStopInProgress
	}
	defer l.state.Stopping.Store(false)

	l.runMu.Lock()
	cancel, done := l.cancel, l.done
	l.runMu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()

	effectiveTimeout := l.stopTimeout(timeout...)
	select {
	case <-done:
		return nil
	case <-time.After(effectiveTimeout):
		return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}
}

func (l *Logger) stopTimeout(timeout ...time.Duration) time.Duration {
	if len(timeout) > 0 && timeout[0] > 0 {
		return timeout[0]
	}
	d := 2 * time.Duration(l.getConfig().PollIntervalMs) * time.Millisecond
	if d < time.Second {
		d = time.Second
	}
	return d
}

// Shutdown is the process-exit entry point. It stops a running engine, which drains the queue,
// or performs the drain in the caller if no engine is running. Only the first call has effect.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	if !l.state.IsInitialized.Load() || l.state.LoggerDisabled.Load() {
		return nil
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if err := l.Stop(timeout...); err != nil {
		// Processor still owns the handle
		return err
	}

	// The drain is idempotent, it also covers a processor that never ran or aborted
	err := l.drain()

	l.state.IsInitialized.Store(false)
	return err
}

// Flush asks the running engine to write its current batch and sync the file,
// waiting for completion or timeout.
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return ErrNotInitialized
	}
	if !l.state.Started.Load() || l.state.ProcessorExited.Load() {
		return ErrNotStarted
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequestChan <- confirmChan:
	case <-time.After(timeout):
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}
