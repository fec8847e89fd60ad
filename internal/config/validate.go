package config

import (
	"fmt"
	"strconv"
	"strings"
)

// validateTopLevel performs the cheap checks that should fail before a
// full mapstructure decode is even attempted: the declared schema version
// and the incremental-rejection rule.
func validateTopLevel(raw map[string]any) error {
	v, ok := raw["version"]
	if !ok {
		return fmt.Errorf("config: missing required field \"version\"")
	}
	if !equalsOne(v) {
		return fmt.Errorf("config: unsupported schema version %v (must be 1)", v)
	}
	if inc, ok := raw["incremental"]; ok {
		if b, ok := inc.(bool); ok && b {
			return fmt.Errorf("config: \"incremental: true\" is not supported")
		}
	}
	return nil
}

func equalsOne(v any) bool {
	switch t := v.(type) {
	case int:
		return t == 1
	case int64:
		return t == 1
	case float64:
		return t == 1
	case string:
		return t == "1"
	default:
		return false
	}
}

// Validate runs the full validation suite over a decoded Config:
// unknown/duplicate ID references, handler option bounds, and the
// overflow-policy grammar. It returns the first error found, with a
// diagnostic precise enough to name the offending ID or field.
func Validate(cfg *Config) error {
	for id, f := range cfg.Formatters {
		if f.Format != "" && f.Format != "text" && f.Format != "json" && f.Format != "logfmt" {
			return fmt.Errorf("config: formatter %q: unknown format %q", id, f.Format)
		}
	}

	for id, f := range cfg.Filters {
		if err := validateFilter(id, f); err != nil {
			return err
		}
	}

	for id, h := range cfg.Handlers {
		if err := validateHandler(id, h, cfg); err != nil {
			return err
		}
	}

	for name, l := range cfg.Loggers {
		if err := validateLoggerRefs(name, l, cfg); err != nil {
			return err
		}
	}
	if cfg.Root != nil {
		if err := validateLoggerRefs("root", *cfg.Root, cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateFilter(id string, f FilterConfig) error {
	set := 0
	if f.Level != nil {
		set++
	}
	if f.Name != nil {
		set++
	}
	if f.Factory != nil {
		set++
	}
	if f.Factory != nil && (f.Level != nil || f.Name != nil) {
		return fmt.Errorf("config: filter %q: \"()\" must not be combined with level or name", id)
	}
	if set != 1 {
		return fmt.Errorf("config: filter %q: exactly one of level, name, or \"()\" must be set", id)
	}
	return nil
}

func validateHandler(id string, h HandlerConfig, cfg *Config) error {
	if h.Class == "" {
		return fmt.Errorf("config: handler %q: missing \"class\"", id)
	}
	capacity := h.Capacity
	if capacity == 0 {
		capacity = 1024
	}
	if capacity <= 0 {
		return fmt.Errorf("config: handler %q: capacity must be > 0", id)
	}
	if h.FlushAfterRecords < 0 || h.FlushAfterMs < 0 {
		return fmt.Errorf("config: handler %q: flush_after_records/flush_after_ms must be >= 0", id)
	}
	if (h.MaxBytes > 0) != (h.BackupCount > 0) {
		return fmt.Errorf("config: handler %q: max_bytes and backup_count must both be set or both be zero", id)
	}
	if h.OverflowPolicy != "" {
		if _, _, err := ParseOverflowPolicy(h.OverflowPolicy); err != nil {
			return fmt.Errorf("config: handler %q: %w", id, err)
		}
	}
	if h.Formatter != nil {
		if _, ok := cfg.Formatters[*h.Formatter]; !ok {
			return fmt.Errorf("config: handler %q: unknown formatter id %q", id, *h.Formatter)
		}
	}
	if err := checkDuplicates(h.Filters); err != nil {
		return fmt.Errorf("config: handler %q: filters: %w", id, err)
	}
	for _, fid := range h.Filters {
		if _, ok := cfg.Filters[fid]; !ok {
			return fmt.Errorf("config: handler %q: unknown filter id %q", id, fid)
		}
	}
	return nil
}

func validateLoggerRefs(name string, l LoggerConfig, cfg *Config) error {
	if err := checkDuplicates(l.Handlers); err != nil {
		return fmt.Errorf("config: logger %q: handlers: %w", name, err)
	}
	if err := checkDuplicates(l.Filters); err != nil {
		return fmt.Errorf("config: logger %q: filters: %w", name, err)
	}
	for _, hid := range l.Handlers {
		if _, ok := cfg.Handlers[hid]; !ok {
			return fmt.Errorf("config: logger %q: unknown handler id %q", name, hid)
		}
	}
	for _, fid := range l.Filters {
		if _, ok := cfg.Filters[fid]; !ok {
			return fmt.Errorf("config: logger %q: unknown filter id %q", name, fid)
		}
	}
	return nil
}

func checkDuplicates(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ParseOverflowPolicy parses the "drop" | "block" | "timeout:N" grammar.
// Bare "timeout" is rejected naming the missing suffix.
func ParseOverflowPolicy(s string) (kind string, timeoutMs int, err error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "drop":
		return "drop", 0, nil
	case s == "block":
		return "block", 0, nil
	case s == "timeout":
		return "", 0, fmt.Errorf("overflow_policy \"timeout\" requires a \":<ms>\" suffix")
	case strings.HasPrefix(s, "timeout:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "timeout:"))
		if err != nil || n <= 0 {
			return "", 0, fmt.Errorf("overflow_policy %q: N must be a positive integer", s)
		}
		return "timeout", n, nil
	default:
		return "", 0, fmt.Errorf("invalid overflow_policy %q", s)
	}
}
