package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	femtologging "github.com/leynos/femtologging"
)

// FilterFactory builds a HostCallback filter from a "()" entry's
// remaining parameters. Python's dictConfig resolves "()" by importing and
// calling a callable named by the string; Go has no equivalent dynamic
// import, so factories must be registered ahead of time by the host
// program.
type FilterFactory func(params map[string]any) (femtologging.Filter, error)

var (
	factoryMu sync.Mutex
	factories = map[string]FilterFactory{}
)

// RegisterFilterFactory makes a named factory available to "()" filter
// entries.
func RegisterFilterFactory(name string, f FilterFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[name] = f
}

// Apply validates cfg and materializes it against reg: formatters, then
// filters, then handlers (each resolving its formatter ID), then loggers
// (each resolving its handler and filter IDs), then root, so every later
// stage can resolve the IDs an earlier stage registered. A handler entry's
// "level" and "filters" are not applied: its filter IDs are checked by
// Validate, but the built handler neither gates by level nor runs filters.
func Apply(cfg *Config, reg *femtologging.Registry) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	formatters := make(map[string]femtologging.Formatter, len(cfg.Formatters))
	for id, fc := range cfg.Formatters {
		formatters[id] = buildFormatter(fc)
	}

	filters := make(map[string]femtologging.Filter, len(cfg.Filters))
	for id, fcfg := range cfg.Filters {
		f, err := buildFilter(fcfg)
		if err != nil {
			return fmt.Errorf("config: filter %q: %w", id, err)
		}
		filters[id] = f
	}

	handlers := make(map[string]femtologging.Handler, len(cfg.Handlers))
	for id, hc := range cfg.Handlers {
		h, err := buildHandler(hc, formatters)
		if err != nil {
			return fmt.Errorf("config: handler %q: %w", id, err)
		}
		handlers[id] = h
	}

	if cfg.DisableExistingLoggers {
		disableUnmentioned(reg, cfg.Loggers)
	}

	for name, lc := range cfg.Loggers {
		l := reg.GetLogger(name)
		l.SetDisabled(false)
		if err := wireLogger(l, lc, handlers, filters); err != nil {
			return err
		}
	}
	if cfg.Root != nil {
		if err := wireLogger(reg.Root(), *cfg.Root, handlers, filters); err != nil {
			return err
		}
	}
	return nil
}

// disableUnmentioned marks every logger already registered, and not named
// in the new config's "loggers" map, as disabled. Mirrors Python
// dictConfig's disable_existing_loggers: a logger dropped from the new
// config goes quiet rather than keep running under its old configuration.
// Root is never disabled this way — it isn't named in cfg.Loggers, and it
// is reconfigured separately via cfg.Root.
func disableUnmentioned(reg *femtologging.Registry, mentioned map[string]LoggerConfig) {
	for _, name := range reg.LoggerNames() {
		if _, ok := mentioned[name]; !ok {
			reg.GetLogger(name).SetDisabled(true)
		}
	}
}

func wireLogger(l *femtologging.Logger, lc LoggerConfig, handlers map[string]femtologging.Handler, filters map[string]femtologging.Filter) error {
	if lc.Level != nil {
		lv, err := femtologging.ParseLevel(*lc.Level)
		if err != nil {
			return fmt.Errorf("config: logger %q: %w", l.Name(), err)
		}
		l.SetLevel(lv)
	}
	if lc.Propagate != nil {
		l.SetPropagate(*lc.Propagate)
	}
	for _, hid := range lc.Handlers {
		l.AddHandler(handlers[hid])
	}
	for _, fid := range lc.Filters {
		l.AddFilter(filters[fid])
	}
	return nil
}

func buildFormatter(fc FormatterConfig) femtologging.Formatter {
	switch fc.Format {
	case "json":
		return femtologging.NewJSONFormatter()
	case "logfmt":
		return femtologging.NewLogfmtFormatter()
	default:
		return femtologging.NewTextFormatter()
	}
}

func buildFilter(fc FilterConfig) (femtologging.Filter, error) {
	switch {
	case fc.Level != nil:
		lv, err := femtologging.ParseLevel(*fc.Level)
		if err != nil {
			return nil, err
		}
		return femtologging.LevelCap{Max: lv}, nil
	case fc.Name != nil:
		return femtologging.NamePrefix{Prefix: *fc.Name}, nil
	case fc.Factory != nil:
		factoryMu.Lock()
		factory, ok := factories[*fc.Factory]
		factoryMu.Unlock()
		if !ok {
			return nil, fmt.Errorf("unregistered filter factory %q", *fc.Factory)
		}
		return factory(fc.Params)
	default:
		return nil, fmt.Errorf("filter entry has no level, name, or \"()\"")
	}
}

func buildHandler(hc HandlerConfig, formatters map[string]femtologging.Formatter) (femtologging.Handler, error) {
	hcfg := femtologging.HandlerConfig{
		Capacity:      hc.Capacity,
		FlushEvery:    hc.FlushAfterRecords,
		FlushInterval: time.Duration(hc.FlushAfterMs) * time.Millisecond,
	}
	if hc.Formatter != nil {
		hcfg.Formatter = formatters[*hc.Formatter]
	}
	if hc.OverflowPolicy != "" {
		kind, ms, err := ParseOverflowPolicy(hc.OverflowPolicy)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "drop":
			hcfg.Policy = femtologging.OverflowPolicy{Kind: femtologging.OverflowDrop}
		case "block":
			hcfg.Policy = femtologging.OverflowPolicy{Kind: femtologging.OverflowBlock}
		case "timeout":
			hcfg.Policy = femtologging.OverflowPolicy{Kind: femtologging.OverflowTimeout, Timeout: time.Duration(ms) * time.Millisecond}
		}
	}

	switch hc.Class {
	case "StreamHandler":
		w := os.Stdout
		if hc.Stream == "stderr" {
			w = os.Stderr
		}
		return femtologging.NewStreamHandler(w, hcfg), nil
	case "FileHandler":
		return femtologging.NewFileHandler(hc.Path, hcfg)
	case "RotatingFileHandler":
		return femtologging.NewRotatingFileHandler(femtologging.RotatingConfig{
			Path:        hc.Path,
			MaxBytes:    hc.MaxBytes,
			BackupCount: hc.BackupCount,
			Compress:    hc.Compress,
		}, hcfg)
	case "SocketHandler":
		return femtologging.NewSocketHandler(femtologging.SocketConfig{
			Network: hc.Network,
			Address: hc.Address,
		}, hcfg)
	case "HTTPHandler":
		return femtologging.NewHTTPHandler(femtologging.HTTPConfig{URL: hc.URL}, hcfg), nil
	default:
		return nil, fmt.Errorf("unknown handler class %q", hc.Class)
	}
}
