// Package femtologging is a high-throughput, hierarchical logging library
// built around a strict producer/consumer architecture: application
// goroutines (producers) do the minimum work to construct a record and
// enqueue it on a bounded channel (filters run on the producer, before
// enqueue), and one dedicated worker goroutine per handler (consumer)
// performs all formatting and I/O.
//
// The package targets feature parity with Python's logging module: levels,
// dotted-name hierarchy, propagation, filters, formatters, multiple and
// shared handlers, and a dict-style configuration schema compatible with
// JSON, YAML, and TOML.
package femtologging
