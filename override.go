package daylog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := daylog.NewLogger()
//	err := logger.ApplyOverride(
//	    "directory=/var/log/app",
//	    "levels=info,warning,error",
//	    "auto_flush_count=500",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()

	if err := ApplyOverrides(cfg, overrides...); err != nil {
		return err
	}

	return l.ApplyConfig(cfg)
}

// ApplyOverrides applies "key=value" overrides to cfg in place, collecting all field errors
func ApplyOverrides(cfg *Config, overrides ...string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("daylog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "daylog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Output
	case "directory":
		cfg.Directory = value
	case "file_mode":
		mode, err := strconv.ParseInt(strings.TrimPrefix(value, "0o"), 8, 64)
		if err != nil {
			return fmtErrorf("invalid octal value for file_mode '%s': %w", value, err)
		}
		cfg.FileMode = mode
	case "levels":
		cfg.Levels = splitList(value)
	case "date_format":
		cfg.Format = value

	// Queue
	case "buffer_size":
		return setInt(&cfg.BufferSize, key, value)

	// Batching
	case "auto_flush_count":
		return setInt(&cfg.AutoFlushCount, key, value)
	case "poll_interval_ms":
		return setInt(&cfg.PollIntervalMs, key, value)
	case "sync_interval_ms":
		return setInt(&cfg.SyncIntervalMs, key, value)

	// Housekeeping
	case "retention_days":
		return setInt(&cfg.RetentionDays, key, value)
	case "heartbeat_interval_s":
		return setInt(&cfg.HeartbeatIntervalS, key, value)

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}
