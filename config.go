package daylog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// configPrefix is the TOML table holding logger settings
const configPrefix = "daylog."

// Config holds all logger configuration values
type Config struct {
	// Output
	Directory string   `toml:"directory"`   // Target directory for log-YYYY-MM-DD.log files
	FileMode  int64    `toml:"file_mode"`   // Permission bits applied after open, best-effort
	Levels    []string `toml:"levels"`      // Accepted levels, "All" accepts everything
	Format    string   `toml:"date_format"` // Token pattern such as "Y-m-d H:i:s.u", 'u' for microseconds

	// Queue
	BufferSize int64 `toml:"buffer_size"` // Capacity of the default channel queue

	// Batching
	AutoFlushCount int64 `toml:"auto_flush_count"` // Writes before a forced sync
	PollIntervalMs int64 `toml:"poll_interval_ms"` // Idle wait between queue polls
	SyncIntervalMs int64 `toml:"sync_interval_ms"` // Max time between syncs with pending writes, 0 disables

	// Housekeeping
	RetentionDays      int64 `toml:"retention_days"`       // Days of files to keep, 0 keeps all
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // 0 disables heartbeat lines

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Report warnings, not only open failures
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Directory: "./logs",
	FileMode:  0o664,
	Levels:    []string{LevelAll},
	Format:    "Y-m-d H:i:s.u",

	BufferSize: 1024,

	AutoFlushCount: 1000,
	PollIntervalMs: 1000,
	SyncIntervalMs: 60000,

	RetentionDays:      0,
	HeartbeatIntervalS: 0,

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	return defaultConfig.Clone()
}

// NewConfigFromFile loads configuration from the [daylog] table of a TOML file.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml tag
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies loader values into cfg, keeping defaults for missing keys
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %v", field.Type())
		}
		var items []string
		switch v := value.(type) {
		case []string:
			items = append(items, v...)
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("expected string list item, got %T", item)
				}
				items = append(items, s)
			}
		case string:
			items = splitList(v)
		default:
			return fmt.Errorf("expected string list, got %T", value)
		}
		field.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if strings.TrimSpace(c.Format) == "" {
		return fmtErrorf("date_format cannot be empty")
	}

	if c.FileMode < 0 || c.FileMode > 0o777 {
		return fmtErrorf("file_mode must be between 0 and 0777: %o", c.FileMode)
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.AutoFlushCount <= 0 {
		return fmtErrorf("auto_flush_count must be positive: %d", c.AutoFlushCount)
	}

	if c.PollIntervalMs <= 0 {
		return fmtErrorf("poll_interval_ms must be positive: %d", c.PollIntervalMs)
	}

	if c.SyncIntervalMs < 0 {
		return fmtErrorf("sync_interval_ms cannot be negative: %d", c.SyncIntervalMs)
	}

	if c.RetentionDays < 0 {
		return fmtErrorf("retention_days cannot be negative: %d", c.RetentionDays)
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	for _, lvl := range c.Levels {
		if strings.TrimSpace(lvl) == "" {
			return fmtErrorf("levels cannot contain empty names")
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	copiedConfig.Levels = append([]string(nil), c.Levels...)
	return &copiedConfig
}
