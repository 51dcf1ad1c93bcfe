package daylog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrace is a deterministic TraceFunc for assertions on message layout
func fakeTrace(cause error) string {
	if cause != nil {
		return "Caused by: " + cause.Error() + "\n#0 app.go(1): main.run"
	}
	return "#0 app.go(1): main.run"
}

// testClock is a settable time source
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// newTestLogger creates a configured, not started logger in a temp directory
func newTestLogger(t testing.TB, modify func(*Config), opts ...Option) (*Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.BufferSize = 100
	cfg.PollIntervalMs = 10
	if modify != nil {
		modify(cfg)
	}

	opts = append([]Option{WithTracer(fakeTrace), WithErrorOutput(&bytes.Buffer{})}, opts...)
	logger := NewLogger(opts...)
	require.NoError(t, logger.ApplyConfig(cfg))

	return logger, tmpDir
}

// createTestLogger creates a started logger in a temp directory
func createTestLogger(t testing.TB) (*Logger, string) {
	t.Helper()
	logger, tmpDir := newTestLogger(t, nil)
	require.NoError(t, logger.Start())
	return logger, tmpDir
}

// readDayFile returns the content of the file for dateKey, empty if missing
func readDayFile(t *testing.T, dir, dateKey string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, FileName(dateKey)))
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

// readToday returns the content of the file for the current local date
func readToday(t *testing.T, dir string) string {
	t.Helper()
	return readDayFile(t, dir, DateKey(time.Now()))
}

// countEntries counts lines starting a record, continuation lines of traces excluded
func countEntries(content, level string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "[") && strings.Contains(line, "] ["+level+"] ") {
			n++
		}
	}
	return n
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.formatter)
	assert.Nil(t, logger.Queue())
	assert.False(t, logger.state.IsInitialized.Load())
	assert.False(t, logger.Disabled())
	assert.Equal(t, DefaultConfig(), logger.GetConfig())
}

func TestApplyConfig(t *testing.T) {
	logger, tmpDir := newTestLogger(t, func(c *Config) { c.BufferSize = 64 })

	assert.True(t, logger.state.IsInitialized.Load())
	assert.False(t, logger.Disabled())
	assert.Equal(t, tmpDir, logger.GetConfig().Directory)

	q, ok := logger.Queue().(*ChanQueue)
	require.True(t, ok)
	assert.Equal(t, 64, q.Cap())

	// The queue survives reconfiguration
	cfg := logger.GetConfig()
	cfg.BufferSize = 8
	require.NoError(t, logger.ApplyConfig(cfg))
	assert.Same(t, q, logger.Queue())
}

func TestApplyConfigInvalid(t *testing.T) {
	logger := NewLogger()

	err := logger.ApplyConfig(nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.AutoFlushCount = 0
	err = logger.ApplyConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto_flush_count must be positive")
	assert.False(t, logger.state.IsInitialized.Load())
}

func TestApplyConfigDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	logger := NewLogger(WithErrorOutput(&bytes.Buffer{}))
	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(blocker, "logs")

	err := logger.ApplyConfig(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.True(t, logger.Disabled())

	// Writes succeed as no-ops
	assert.True(t, logger.Write("error", "lost", nil))
	assert.Equal(t, 0, logger.Queue().Len())
	assert.False(t, logger.Admits(LevelError))

	// Lifecycle calls are harmless
	assert.NoError(t, logger.Start())
	assert.False(t, logger.state.Started.Load())
	assert.NoError(t, logger.Shutdown())

	// A usable directory re-enables the logger
	cfg.Directory = t.TempDir()
	require.NoError(t, logger.ApplyConfig(cfg))
	assert.False(t, logger.Disabled())
}

func TestApplyOverride(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		verify    func(t *testing.T, cfg *Config)
		wantError string
	}{
		{
			name:      "batching values",
			overrides: []string{"auto_flush_count=5", "sync_interval_ms=0", "poll_interval_ms=20"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(5), cfg.AutoFlushCount)
				assert.Equal(t, int64(0), cfg.SyncIntervalMs)
				assert.Equal(t, int64(20), cfg.PollIntervalMs)
			},
		},
		{
			name:      "levels and mode",
			overrides: []string{"levels=info, error", "file_mode=0600", "date_format=Y-m-d"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"info", "error"}, cfg.Levels)
				assert.Equal(t, int64(0o600), cfg.FileMode)
				assert.Equal(t, "Y-m-d", cfg.Format)
			},
		},
		{
			name:      "unknown key",
			overrides: []string{"max_size_mb=10"},
			wantError: "unknown configuration key",
		},
		{
			name:      "invalid value fails validation",
			overrides: []string{"buffer_size=-1"},
			wantError: "buffer_size must be positive",
		},
		{
			name:      "malformed pair",
			overrides: []string{"directory"},
			wantError: "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger(t, nil)

			err := logger.ApplyOverride(tt.overrides...)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			tt.verify(t, logger.GetConfig())
		})
	}
}

func TestWriteLevelFilter(t *testing.T) {
	logger, _ := newTestLogger(t, func(c *Config) { c.Levels = []string{"warning", "error"} })
	q := logger.Queue()

	assert.True(t, logger.Write("debug", "filtered", nil))
	assert.True(t, logger.Write("INFO", "filtered", nil))
	assert.Equal(t, 0, q.Len())

	assert.True(t, logger.Write("WARNING", "kept", nil))
	assert.True(t, logger.Write("core error", "always kept", nil))
	require.Equal(t, 2, q.Len())

	e, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, LevelWarning, e.Level)
	assert.Equal(t, "kept", e.Message)

	e, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, LevelCoreError, e.Level)
}

func TestWriteBuildsEntry(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.Local)
	logger, _ := newTestLogger(t, nil, WithClock(newTestClock(now).Now))
	q := logger.Queue()

	require.True(t, logger.Write("notice", "plain", nil))
	require.True(t, logger.Write("warning", "with cause", errors.New("boom")))

	e, _ := q.Pop()
	assert.Equal(t, Entry{Message: "plain", Level: LevelNotice, Time: now, DateKey: "2024-05-06"}, e)

	e, _ = q.Pop()
	assert.Equal(t, "with cause\nError Trace:\nCaused by: boom\n#0 app.go(1): main.run", e.Message)
}

func TestWriteErrorEndToEnd(t *testing.T) {
	logger, tmpDir := newTestLogger(t, nil)
	q := logger.Queue()

	require.True(t, logger.Write("error", "disk full", nil))
	require.Equal(t, 1, q.Len())

	e, ok := q.Pop()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(e.Message, "disk full\nError Trace:\n"))
	assert.True(t, strings.HasSuffix(e.Message, fakeTrace(nil)))
	require.True(t, q.Push(e))

	require.NoError(t, logger.ensureOpen())
	require.NoError(t, logger.drainBatch())
	require.NoError(t, logger.closeLogFile())

	content := readDayFile(t, tmpDir, e.DateKey)
	assert.Equal(t, 1, strings.Count(content, "[Error]"))
	assert.Equal(t, 1, countEntries(content, LevelError))
	assert.Contains(t, content, "] [Error] disk full\nError Trace:\n")
}

func TestWriteNotAccepted(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		logger := NewLogger()
		assert.False(t, logger.Write("info", "early", nil))
		assert.Equal(t, uint64(1), logger.Stats().Dropped)
	})

	t.Run("queue full", func(t *testing.T) {
		logger, _ := newTestLogger(t, nil, WithQueue(NewChanQueue(2)))
		assert.True(t, logger.Write("info", "1", nil))
		assert.True(t, logger.Write("info", "2", nil))
		assert.False(t, logger.Write("info", "3", nil))
		assert.Equal(t, uint64(1), logger.Stats().Dropped)
		assert.Equal(t, 2, logger.Stats().Queued)
	})
}

func TestLoggerLoggingLevels(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Debug("debug message", 1)
	logger.Info("info message", true)
	logger.Notice("notice message", 1.5)
	logger.Warning("warning message", []byte{0xca, 0xfe})
	logger.Error("error message", errors.New("root cause"))
	logger.Log("custom level", "custom message")

	require.NoError(t, logger.Flush(time.Second))

	content := readToday(t, tmpDir)
	assert.Contains(t, content, "[Debug] debug message 1\n")
	assert.Contains(t, content, "[Info] info message true\n")
	assert.Contains(t, content, "[Notice] notice message 1.5\n")
	assert.Contains(t, content, "[Warning] warning message cafe\n")
	assert.Contains(t, content, "[Error] error message root cause\nError Trace:\nCaused by: root cause\n")
	assert.Contains(t, content, "[Custom Level] custom message\n")
}

func TestLoggerArgsFilteredBeforeFormatting(t *testing.T) {
	logger, _ := newTestLogger(t, func(c *Config) { c.Levels = []string{"error"} })

	logger.Debug("never rendered")
	logger.Info("never rendered")
	assert.Equal(t, 0, logger.Queue().Len())
}

func TestLoggerConcurrency(t *testing.T) {
	logger, tmpDir := newTestLogger(t, func(c *Config) { c.BufferSize = 10000 })
	require.NoError(t, logger.Start())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logger.Info("goroutine", id, "log", j)
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, logger.Shutdown(2*time.Second))

	assert.Equal(t, 1000, countEntries(readToday(t, tmpDir), LevelInfo))
	assert.Equal(t, uint64(1000), logger.Stats().Processed)
	assert.Equal(t, uint64(0), logger.Stats().Dropped)
}

func TestInternalLog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithErrorOutput(&buf))

	logger.internalLog(LevelCoreWarning, "warned %d", 1)
	assert.Contains(t, buf.String(), "] [Core Warning] daylog: warned 1\n")

	cfg := DefaultConfig()
	cfg.InternalErrorsToStderr = false
	logger.currentConfig.Store(cfg)
	buf.Reset()

	logger.internalLog(LevelCoreWarning, "suppressed")
	assert.Empty(t, buf.String())

	logger.internalLog(LevelCoreError, "reported")
	assert.Contains(t, buf.String(), "] [Core Error] daylog: reported\n")
}
