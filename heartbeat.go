package daylog

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lixenwraith/daylog/formatter"
)

// heartbeatIfDue writes a heartbeat line when the configured interval has elapsed.
// The first heartbeat of an engine instance is written on its first iteration.
func (l *Logger) heartbeatIfDue(c *Config) {
	if c.HeartbeatIntervalS <= 0 {
		return
	}

	interval := time.Duration(c.HeartbeatIntervalS) * time.Second
	if !l.fs.lastHeartbeat.IsZero() && time.Since(l.fs.lastHeartbeat) < interval {
		return
	}
	l.fs.lastHeartbeat = time.Now()

	t := l.now()
	e := Entry{
		Message: l.heartbeatMessage(c),
		Level:   LevelHeartbeat,
		Time:    t,
		DateKey: DateKey(t),
	}

	// Written in place, a full queue must not suppress the heartbeat
	if err := l.writeEntry(e); err != nil {
		l.internalLog(LevelCoreWarning, "heartbeat write failed: %v", err)
	}
}

// heartbeatMessage renders engine, file and runtime statistics as key value pairs
func (l *Logger) heartbeatMessage(c *Config) string {
	sequence := l.state.HeartbeatSequence.Add(1)
	stats := l.Stats()

	args := []any{
		"sequence", sequence,
		"uptime_hours", fmt.Sprintf("%.2f", stats.Uptime.Hours()),
		"processed_logs", stats.Processed,
		"dropped_logs", stats.Dropped,
		"queued_logs", stats.Queued,
		"rotated_files", stats.Rotations,
		"deleted_files", stats.Deletions,
		"sync_failures", stats.SyncFailures,
	}

	if count, size, err := getLogDirStats(c.Directory); err == nil {
		args = append(args,
			"log_file_count", count,
			"total_log_size_mb", fmt.Sprintf("%.2f", float64(size)/(1024*1024)),
		)
	} else {
		l.internalLog(LevelCoreWarning, "heartbeat failed to read log directory: %v", err)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	args = append(args,
		"alloc_mb", fmt.Sprintf("%.2f", float64(memStats.Alloc)/(1000*1000)),
		"num_goroutine", runtime.NumGoroutine(),
	)

	return formatter.FormatArgs(args...)
}
