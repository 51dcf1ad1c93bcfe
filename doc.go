// Package daylog is a buffered, day-rotating file logger.
//
// Producers call Write (or Debug, Info, Notice, Warning, Error) from any goroutine.
// Admitted entries go to a shared Queue. A single flush engine, started with Start
// or Run, drains the queue in length-snapshot batches, appends each entry as
//
//	[<date>] [<Level>] <message>
//
// to log-YYYY-MM-DD.log for the entry's local date, and syncs the file after
// auto_flush_count writes or sync_interval_ms with pending writes. Shutdown stops
// the engine and drains whatever is still queued before closing the file.
//
// Logging never fails the caller. An unusable directory puts the logger in a
// disabled mode where writes are no-ops, and engine failures are reported on
// stderr as [Core Error] lines.
package daylog
