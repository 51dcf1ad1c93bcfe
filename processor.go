package daylog

import (
	"context"
	"time"
)

// processLogs is the flush engine loop. It returns nil after the final drain on
// cancellation, or the open failure that aborted it.
func (l *Logger) processLogs(ctx context.Context) error {
	defer l.state.ProcessorExited.Store(true)

	c := l.getConfig()
	pollInterval := time.Duration(c.PollIntervalMs) * time.Millisecond
	if pollInterval < minWaitTime {
		pollInterval = minWaitTime
	}

	timer := time.NewTimer(pollInterval)
	defer timer.Stop()

	for {
		if err := l.ensureOpen(); err != nil {
			l.state.ProcessorFailed.Store(true)
			return err
		}

		l.syncIfDue(c)

		if err := l.drainBatch(); err != nil {
			l.state.ProcessorFailed.Store(true)
			return err
		}

		l.heartbeatIfDue(c)

		select {
		case <-ctx.Done():
			return l.drain()

		case confirmChan := <-l.state.flushRequestChan:
			err := l.drainBatch()
			if err == nil {
				_ = l.syncLogFile()
			}
			close(confirmChan)
			if err != nil {
				l.state.ProcessorFailed.Store(true)
				return err
			}

		case <-timer.C:
			timer.Reset(pollInterval)
		}
	}
}

// syncIfDue syncs on the count threshold, or on the interval when writes are pending
func (l *Logger) syncIfDue(c *Config) {
	if l.fs.file == nil || l.fs.pending == 0 {
		return
	}

	countDue := l.fs.pending >= c.AutoFlushCount
	timeDue := c.SyncIntervalMs > 0 &&
		time.Since(l.fs.lastSync) >= time.Duration(c.SyncIntervalMs)*time.Millisecond

	if countDue || timeDue {
		_ = l.syncLogFile()
	}
}

// drainBatch writes up to the current queue length. An early empty pop ends the batch.
func (l *Logger) drainBatch() error {
	_, err := l.writeAvailable(nil)
	return err
}

// writeAvailable writes the held entry and a length snapshot of the queue.
// onWrite, if set, runs after each successful write. It returns the number of writes.
func (l *Logger) writeAvailable(onWrite func()) (int, error) {
	written := 0

	if held := l.fs.held; held != nil {
		if err := l.writeEntry(*held); err != nil {
			return written, err
		}
		written++
		if onWrite != nil {
			onWrite()
		}
	}

	q := l.getQueue()
	if q == nil {
		return written, nil
	}

	n := q.Len()
	for i := 0; i < n; i++ {
		e, ok := q.Pop()
		if !ok {
			break
		}
		if err := l.writeEntry(e); err != nil {
			return written, err
		}
		written++
		if onWrite != nil {
			onWrite()
		}
	}

	return written, nil
}

// writeEntry formats e and appends it to the file for its date, rotating first if needed.
// An entry whose target file cannot be opened is held for the next consumer.
func (l *Logger) writeEntry(e Entry) error {
	if l.fs.file == nil || NeedsRotation(l.fs.fileKey, e.DateKey) {
		if err := l.rotate(e.DateKey); err != nil {
			l.fs.held = &e
			return err
		}
	}
	l.fs.held = nil

	line := l.formatter.Line(e.Time, e.Level, e.Message)
	if _, err := l.fs.file.Write(line); err != nil {
		l.state.DroppedLogs.Add(1)
		l.internalLog(LevelCoreError, "failed to write to log file '%s': %v", l.fs.file.Name(), err)
		return nil
	}

	l.fs.pending++
	l.state.TotalLogsProcessed.Add(1)
	return nil
}

// drain is the terminal consumer pass: it writes everything queued at its start,
// syncing every auto_flush_count writes, then closes the file.
// Safe to repeat, a later call reopens the file only if entries remain.
func (l *Logger) drain() error {
	if !l.state.IsInitialized.Load() || l.state.LoggerDisabled.Load() {
		return nil
	}

	q := l.getQueue()
	// Nothing to write: no empty file is created for today
	if l.fs.file == nil && l.fs.held == nil && (q == nil || q.Len() == 0) {
		l.state.Drained.Store(true)
		return nil
	}

	if err := l.ensureOpen(); err != nil {
		return err
	}
	_ = l.syncLogFile()

	c := l.getConfig()
	var sinceSync int64
	_, writeErr := l.writeAvailable(func() {
		sinceSync++
		if sinceSync >= c.AutoFlushCount {
			_ = l.syncLogFile()
			sinceSync = 0
		}
	})

	closeErr := l.closeLogFile()
	if err := combineErrors(writeErr, closeErr); err != nil {
		return err
	}

	l.state.Drained.Store(true)
	return nil
}
