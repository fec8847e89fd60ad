package femtologging

import (
	"fmt"
	"strings"
)

// Filter is a predicate evaluated over a Record on the producer thread,
// before the record is handed to any handler. Filter lists stop at the
// first deny.
type Filter interface {
	ShouldLog(r *Record) bool
}

// LevelCap admits a record iff its level is at most Max.
type LevelCap struct {
	Max Level
}

func (f LevelCap) ShouldLog(r *Record) bool {
	return r.Level <= f.Max
}

// NamePrefix admits a record iff the logger name starts with Prefix.
type NamePrefix struct {
	Prefix string
}

func (f NamePrefix) ShouldLog(r *Record) bool {
	return strings.HasPrefix(r.LoggerName, f.Prefix)
}

// Enrichment bounds for HostCallback, keeping producer-side metadata
// enrichment small enough that a misbehaving callback can't blow up memory
// or per-record encoding cost.
const (
	maxEnrichKeys       = 64
	maxEnrichKeyBytes   = 64
	maxEnrichValueBytes = 1024
	maxEnrichTotalBytes = 16 * 1024
)

// reservedKeys may never be set by a HostCallback; they are populated by
// the core itself.
var reservedKeys = map[string]struct{}{
	"logger":    {},
	"level":     {},
	"message":   {},
	"timestamp": {},
}

// HostCallback runs a user-supplied predicate on the producer thread. A
// callback may enrich the record's metadata by returning key/value pairs to
// merge in, subject to the bounds above; violating a bound or attempting to
// set a reserved key drops the entire enrichment (the record is still
// admitted or denied per the callback's boolean return).
//
// A callback that panics is treated as a deny and reported through the
// internal diagnostic sink rather than propagated to the caller of log().
type HostCallback struct {
	Name string
	Fn   func(r *Record) (admit bool, enrich []KV)
	diag diagnosticSink
}

func (f HostCallback) ShouldLog(r *Record) bool {
	admit, enrich := f.safeInvoke(r)
	if !admit {
		return false
	}
	if len(enrich) == 0 {
		return true
	}
	if err := validateEnrichment(enrich); err != nil {
		f.sink().Reportf("femtologging: filter %q enrichment rejected: %v", f.Name, err)
		return true
	}
	r.Meta.Attrs = append(r.Meta.Attrs, enrich...)
	return true
}

func (f HostCallback) safeInvoke(r *Record) (admit bool, enrich []KV) {
	defer func() {
		if rec := recover(); rec != nil {
			f.sink().Reportf("femtologging: filter %q panicked: %v", f.Name, rec)
			admit = false
			enrich = nil
		}
	}()
	return f.Fn(r)
}

func (f HostCallback) sink() diagnosticSink {
	if f.diag != nil {
		return f.diag
	}
	return defaultDiagnostics
}

func validateEnrichment(kvs []KV) error {
	if len(kvs) > maxEnrichKeys {
		return fmt.Errorf("too many keys (%d > %d)", len(kvs), maxEnrichKeys)
	}
	total := 0
	for _, kv := range kvs {
		if _, reserved := reservedKeys[kv.Key]; reserved {
			return fmt.Errorf("reserved key %q", kv.Key)
		}
		if len(kv.Key) > maxEnrichKeyBytes {
			return fmt.Errorf("key %q exceeds %d bytes", kv.Key, maxEnrichKeyBytes)
		}
		if len(kv.Value) > maxEnrichValueBytes {
			return fmt.Errorf("value for key %q exceeds %d bytes", kv.Key, maxEnrichValueBytes)
		}
		total += len(kv.Key) + len(kv.Value)
	}
	if total > maxEnrichTotalBytes {
		return fmt.Errorf("total enrichment size %d exceeds %d bytes", total, maxEnrichTotalBytes)
	}
	return nil
}
