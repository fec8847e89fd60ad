// Package config implements the builder/config-applier layer: parsing a
// dict-style configuration document from JSON, YAML, or TOML, validating
// it, and materializing formatters/filters/handlers/loggers against a
// femtologging.Registry.
//
// The JSON/YAML/TOML trio mirrors cruciblehq-protocol's own manifest
// dialect support; leaf decoding into the typed structs below uses
// github.com/go-viper/mapstructure/v2, also adopted from that repo's
// go.mod.
package config

// Config is the top-level dict-config document.
type Config struct {
	Version                int                         `mapstructure:"version"`
	DisableExistingLoggers bool                        `mapstructure:"disable_existing_loggers"`
	Incremental            *bool                       `mapstructure:"incremental"`
	Formatters             map[string]FormatterConfig  `mapstructure:"formatters"`
	Filters                map[string]FilterConfig     `mapstructure:"filters"`
	Handlers               map[string]HandlerConfig    `mapstructure:"handlers"`
	Loggers                map[string]LoggerConfig     `mapstructure:"loggers"`
	Root                   *LoggerConfig               `mapstructure:"root"`
}

// FormatterConfig names a built-in formatter kind: "text" (default),
// "json", or "logfmt". There is no printf-style template engine behind
// "format" (no formatter in the pack — sawmill's included — has one
// either; its formatters are fixed-shape like these).
type FormatterConfig struct {
	Format  string `mapstructure:"format"`
	Datefmt string `mapstructure:"datefmt"`
}

// FilterConfig is one of three mutually exclusive shapes: a level cap, a
// name-prefix filter, or a factory-built host callback (the "()" key, by
// convention in Python dictConfig and preserved here). Exactly one of
// Level, Name, or Factory must be set.
type FilterConfig struct {
	Level   *string        `mapstructure:"level"`
	Name    *string        `mapstructure:"name"`
	Factory *string        `mapstructure:"()"`
	Params  map[string]any `mapstructure:",remain"`
}

// HandlerConfig covers every handler class; fields irrelevant to a given
// Class are simply left zero.
type HandlerConfig struct {
	Class             string   `mapstructure:"class"`
	Level             *string  `mapstructure:"level"`
	Formatter         *string  `mapstructure:"formatter"`
	Filters           []string `mapstructure:"filters"`
	Capacity          int      `mapstructure:"capacity"`
	FlushAfterRecords int      `mapstructure:"flush_after_records"`
	FlushAfterMs      int      `mapstructure:"flush_after_ms"`
	OverflowPolicy    string   `mapstructure:"overflow_policy"`
	MaxBytes          int64    `mapstructure:"max_bytes"`
	BackupCount       int      `mapstructure:"backup_count"`
	Compress          bool     `mapstructure:"compress"`

	// Class-specific.
	Path    string `mapstructure:"path"`     // FileHandler, RotatingFileHandler
	Stream  string `mapstructure:"stream"`   // StreamHandler: "stdout" | "stderr"
	Address string `mapstructure:"address"`  // SocketHandler
	Network string `mapstructure:"network"`  // SocketHandler
	URL     string `mapstructure:"url"`      // HTTPHandler
}

// LoggerConfig is one named logger's (or root's) configuration.
type LoggerConfig struct {
	Level     *string  `mapstructure:"level"`
	Handlers  []string `mapstructure:"handlers"`
	Filters   []string `mapstructure:"filters"`
	Propagate *bool    `mapstructure:"propagate"`
}
