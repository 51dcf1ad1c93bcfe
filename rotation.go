package daylog

import (
	"strings"
	"time"
)

// DateKey returns the calendar date of t in the local zone as YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Local().Format(dateKeyLayout)
}

// FileName maps a date key to its log file name, log-<dateKey>.log
func FileName(dateKey string) string {
	return filePrefix + dateKey + fileExtension
}

// NeedsRotation reports whether an entry with entryKey cannot go to the file open for openKey
func NeedsRotation(openKey, entryKey string) bool {
	return openKey != entryKey
}

// parseFileName extracts the date of a log file name, ok is false for foreign files
func parseFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExtension) {
		return time.Time{}, false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExtension)
	t, err := time.ParseInLocation(dateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
