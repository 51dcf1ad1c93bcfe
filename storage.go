package daylog

import (
	"os"
	"path/filepath"
	"time"
)

// prepareDirectory creates dir if needed and verifies it is writable
func prepareDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmtErrorf("failed to create log directory: %w", err)
	}

	probe, err := os.CreateTemp(dir, ".daylog-probe-*")
	if err != nil {
		return fmtErrorf("log directory not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// openLogFile opens the file for dateKey in append mode and applies the configured mode
func (l *Logger) openLogFile(dateKey string) (*os.File, error) {
	c := l.getConfig()
	path := filepath.Join(c.Directory, FileName(dateKey))
	mode := os.FileMode(c.FileMode)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}

	// Explicit chmod since the open mode is filtered by umask
	if mode != 0 {
		if err := os.Chmod(path, mode); err != nil {
			l.internalLog(LevelCoreWarning, "failed to set mode %o on '%s': %v", mode, path, err)
		}
	}

	return f, nil
}

// ensureOpen opens the file for the current wall-clock date if no handle is open
func (l *Logger) ensureOpen() error {
	if l.fs.file != nil {
		return nil
	}

	key := DateKey(l.now())
	f, err := l.openLogFile(key)
	if err != nil {
		l.internalLog(LevelCoreError, "%v", err)
		return err
	}

	l.fs.file = f
	l.fs.fileKey = key
	l.fs.pending = 0
	l.fs.lastSync = time.Now()
	l.cleanExpiredLogs(key)
	return nil
}

// rotate closes the open file and opens the one for dateKey
func (l *Logger) rotate(dateKey string) error {
	hadFile := l.fs.file != nil
	if hadFile {
		_ = l.closeLogFile()
	}

	f, err := l.openLogFile(dateKey)
	if err != nil {
		l.internalLog(LevelCoreError, "%v", err)
		return err
	}

	l.fs.file = f
	l.fs.fileKey = dateKey
	l.fs.pending = 0
	l.fs.lastSync = time.Now()
	if hadFile {
		l.state.TotalRotations.Add(1)
	}
	l.cleanExpiredLogs(dateKey)
	return nil
}

// syncLogFile forces written data to disk. Pending writes are cleared only on success,
// the sync time advances regardless.
func (l *Logger) syncLogFile() error {
	if l.fs.file == nil {
		return nil
	}

	l.state.TotalSyncs.Add(1)
	err := l.fs.file.Sync()
	l.fs.lastSync = time.Now()
	if err != nil {
		l.state.SyncFailures.Add(1)
		l.internalLog(LevelCoreWarning, "failed to sync log file '%s': %v", l.fs.file.Name(), err)
		return fmtErrorf("failed to sync log file '%s': %w", l.fs.file.Name(), err)
	}

	l.fs.pending = 0
	return nil
}

// closeLogFile syncs and closes the open file
func (l *Logger) closeLogFile() error {
	if l.fs.file == nil {
		return nil
	}

	syncErr := l.syncLogFile()
	name := l.fs.file.Name()
	closeErr := l.fs.file.Close()
	l.fs.file = nil
	l.fs.fileKey = ""

	if closeErr != nil {
		closeErr = fmtErrorf("failed to close log file '%s': %w", name, closeErr)
	}
	return combineErrors(syncErr, closeErr)
}

// cleanExpiredLogs removes files dated more than retention_days before currentKey
func (l *Logger) cleanExpiredLogs(currentKey string) {
	c := l.getConfig()
	if c.RetentionDays <= 0 {
		return
	}

	current, err := time.ParseInLocation(dateKeyLayout, currentKey, time.Local)
	if err != nil {
		return
	}
	cutoff := current.AddDate(0, 0, -int(c.RetentionDays))

	entries, err := os.ReadDir(c.Directory)
	if err != nil {
		l.internalLog(LevelCoreWarning, "failed to read log directory '%s' for retention: %v", c.Directory, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileDate, ok := parseFileName(entry.Name())
		if !ok || !fileDate.Before(cutoff) {
			continue
		}
		path := filepath.Join(c.Directory, entry.Name())
		if err := os.Remove(path); err != nil {
			l.internalLog(LevelCoreWarning, "failed to remove expired log file '%s': %v", path, err)
			continue
		}
		l.state.TotalDeletions.Add(1)
	}
}

// getLogDirStats returns the count and total size of log files in dir
func getLogDirStats(dir string) (int, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmtErrorf("failed to read log directory '%s': %w", dir, err)
	}

	var count int
	var size int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := parseFileName(entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		size += info.Size()
	}
	return count, size, nil
}
