package daylog

import (
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	LoggerDisabled  atomic.Bool // Directory unusable, every write is a silent no-op
	ShutdownCalled  atomic.Bool
	Started         atomic.Bool // Engine slot claimed, released only after the processor exits
	Stopping        atomic.Bool // A Stop is waiting on the processor
	ProcessorExited atomic.Bool // Tracks if the processor goroutine is running or has exited
	ProcessorFailed atomic.Bool // Processor aborted on a file open failure
	Drained         atomic.Bool // Final drain completed and handle closed

	flushRequestChan chan chan struct{} // Channel to request a flush
	flushMutex       sync.Mutex         // Protect concurrent Flush calls

	DroppedLogs        atomic.Uint64 // Entries rejected by a full queue or a failed write
	TotalLogsProcessed atomic.Uint64 // Entries written to a file
	TotalRotations     atomic.Uint64 // Date changes of the open file
	TotalSyncs         atomic.Uint64 // Sync attempts
	SyncFailures       atomic.Uint64
	TotalDeletions     atomic.Uint64 // Files removed by retention

	HeartbeatSequence atomic.Uint64
	LoggerStartTime   atomic.Value // stores time.Time for uptime calculation
}

// flushState is owned by whichever consumer is active, the loop or the final drain.
// Hand-over between them is ordered by the processor's done channel.
type flushState struct {
	file          *os.File
	fileKey       string    // Date key of the open file
	pending       int64     // Writes since the last successful sync
	lastSync      time.Time // Last sync attempt, successful or not
	lastHeartbeat time.Time
	held          *Entry // Popped entry whose target file could not be opened
}

// Stats returns a snapshot of engine counters
func (l *Logger) Stats() Stats {
	s := Stats{
		Processed:    l.state.TotalLogsProcessed.Load(),
		Dropped:      l.state.DroppedLogs.Load(),
		Rotations:    l.state.TotalRotations.Load(),
		Syncs:        l.state.TotalSyncs.Load(),
		SyncFailures: l.state.SyncFailures.Load(),
		Deletions:    l.state.TotalDeletions.Load(),
	}
	if q := l.getQueue(); q != nil {
		s.Queued = q.Len()
	}
	if start, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !start.IsZero() {
		s.Uptime = time.Since(start)
	}
	return s
}
