package daylog

import (
	"time"
)

// Entry is a single immutable log record
type Entry struct {
	Message string
	Level   string    // Normalized level name
	Time    time.Time // Creation time, sub-second precision
	DateKey string    // YYYY-MM-DD of Time in local zone, selects the target file
}

// Queue is the shared FIFO between producers and the flush engine.
// Push may be called from many goroutines, Pop and Len from the single consumer.
type Queue interface {
	// Push enqueues e, returns false if it was not accepted
	Push(e Entry) bool
	// Pop dequeues without blocking, ok is false when nothing is available
	Pop() (e Entry, ok bool)
	// Len returns the number of queued entries
	Len() int
}

// TraceFunc renders a backtrace for an error-class entry, cause may be nil
type TraceFunc func(cause error) string

// Stats is a snapshot of engine counters
type Stats struct {
	Processed    uint64
	Dropped      uint64
	Rotations    uint64
	Syncs        uint64
	SyncFailures uint64
	Deletions    uint64
	Queued       int
	Uptime       time.Duration
}
