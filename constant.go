package daylog

import (
	"time"
)

// Common level names, stored in normalized form
const (
	LevelDebug   = "Debug"
	LevelInfo    = "Info"
	LevelNotice  = "Notice"
	LevelWarning = "Warning"
	LevelError   = "Error"

	// LevelAll in the accepted level list admits every level
	LevelAll = "All"

	// LevelHeartbeat is written by the engine itself and never filtered
	LevelHeartbeat = "Heartbeat"
)

// Severe runtime levels, always admitted regardless of configuration
const (
	LevelCoreError      = "Core Error"
	LevelCoreWarning    = "Core Warning"
	LevelCompileError   = "Compile Error"
	LevelCompileWarning = "Compile Warning"
)

// severeLevels are merged into every accepted level set
var severeLevels = []string{LevelCoreError, LevelCoreWarning, LevelCompileError, LevelCompileWarning}

// File naming
const (
	filePrefix    = "log-"
	fileExtension = ".log"
	dateKeyLayout = "2006-01-02"
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Diagnostics allowed per second on the fallback writer, and burst
	diagRatePerSecond = 1
	diagBurst         = 10
)
