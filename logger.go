package femtologging

import (
	"context"
	"sync/atomic"
	"time"
)

// Logger is identified by its dotted name and holds an atomic level, a
// propagate flag, and copy-on-write filter/handler lists. Handler/filter
// list mutation always replaces the backing slice pointer atomically;
// producers never observe a torn list.
//
// Grounded on sawmill's logger.go (the embedded-struct-plus-clone update
// style of its `logger` type) and on moisespsena-go-logging's Log struct
// for the level-gate/dispatch shape; the copy-on-write list swap and
// propagation machinery below are new, since neither source has a logger
// hierarchy.
type Logger struct {
	name      string
	level     atomicLevel
	propagate atomic.Bool
	disabled  atomic.Bool
	handlers  atomic.Pointer[[]Handler]
	filters   atomic.Pointer[[]Filter]
	parent    *Logger
	reg       *Registry

	cache atomic.Pointer[levelCache]

	// Test-observable counters confirming that a disabled level never
	// constructs a record.
	enabledChecks      atomic.Int64
	recordsConstructed atomic.Int64
}

type levelCache struct {
	epoch int64
	level Level
}

func newLogger(name string, reg *Registry, parent *Logger) *Logger {
	l := &Logger{name: name, reg: reg, parent: parent}
	l.propagate.Store(true)
	empty := []Handler(nil)
	l.handlers.Store(&empty)
	emptyF := []Filter(nil)
	l.filters.Store(&emptyF)
	return l
}

// Name returns the logger's dotted name.
func (l *Logger) Name() string { return l.name }

// SetLevel atomically sets this logger's own level. Unset reverts to
// inheriting from the nearest ancestor with a level set.
func (l *Logger) SetLevel(lv Level) {
	l.level.store(lv)
	if l.reg != nil {
		l.reg.bumpEpoch()
	}
}

// Level returns this logger's own (possibly Unset) level, as distinct from
// EffectiveLevel.
func (l *Logger) Level() Level { return l.level.load() }

// SetPropagate controls whether records also dispatch to ancestor handlers.
func (l *Logger) SetPropagate(p bool) { l.propagate.Store(p) }

// Disabled reports whether a disable_existing_loggers config pass has
// silenced this logger. A disabled logger drops every record regardless of
// level.
func (l *Logger) Disabled() bool { return l.disabled.Load() }

// SetDisabled sets or clears this logger's disabled flag.
func (l *Logger) SetDisabled(d bool) { l.disabled.Store(d) }

// EffectiveLevel walks the ancestor chain until a set level is found,
// caching the result until the registry's epoch next advances (i.e. until
// any logger's level next changes).
func (l *Logger) EffectiveLevel() Level {
	epoch := l.reg.epochValue()
	if c := l.cache.Load(); c != nil && c.epoch == epoch {
		return c.level
	}
	lv := l.computeEffective()
	l.cache.Store(&levelCache{epoch: epoch, level: lv})
	return lv
}

func (l *Logger) computeEffective() Level {
	for cur := l; cur != nil; cur = cur.parent {
		if lv := cur.level.load(); lv != Unset {
			return lv
		}
	}
	return Info
}

// IsEnabledFor is the lock-free hot path check: it bumps the enabled-check
// counter, returns false for a disabled logger, and otherwise compares lv
// against EffectiveLevel. It is not a single atomic operation: it does
// several atomic loads, and an EffectiveLevel cache miss walks the
// ancestor chain and allocates a new cache entry.
func (l *Logger) IsEnabledFor(lv Level) bool {
	l.enabledChecks.Add(1)
	if l.disabled.Load() {
		return false
	}
	return lv >= l.EffectiveLevel()
}

// AddHandler appends h to this logger's handler list via copy-on-write.
func (l *Logger) AddHandler(h Handler) {
	for {
		old := l.handlers.Load()
		next := make([]Handler, len(*old)+1)
		copy(next, *old)
		next[len(*old)] = h
		if l.handlers.CompareAndSwap(old, &next) {
			return
		}
	}
}

// ClearHandlers atomically replaces the handler list with an empty one.
func (l *Logger) ClearHandlers() {
	empty := []Handler(nil)
	l.handlers.Store(&empty)
}

// Handlers returns a snapshot of the current handler list.
func (l *Logger) Handlers() []Handler {
	return *l.handlers.Load()
}

// AddFilter appends f to this logger's filter list via copy-on-write.
func (l *Logger) AddFilter(f Filter) {
	for {
		old := l.filters.Load()
		next := make([]Filter, len(*old)+1)
		copy(next, *old)
		next[len(*old)] = f
		if l.filters.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Log is the producer-path entry point: enabled check, record
// construction, filter evaluation, dispatch, and propagation.
func (l *Logger) Log(lv Level, message string, attrs ...KV) {
	l.logDispatch(context.Background(), lv, message, attrs)
}

// monotonicBase anchors Metadata.Monotonic: nanoseconds elapsed since
// package initialization, read from Go's monotonic clock and so unaffected
// by wall-clock adjustments.
var monotonicBase = time.Now()

// logDispatch builds a Record (capturing wall/monotonic time, call site,
// and goroutine id) and runs it through the filter/dispatch/propagate
// pipeline. Every exported logging method — Log, LogCtx, and the per-level
// convenience methods below — calls this directly, so callerSkip always
// attributes the captured frame to the caller's own call site.
func (l *Logger) logDispatch(ctx context.Context, lv Level, message string, attrs []KV) {
	if !l.IsEnabledFor(lv) {
		return
	}
	l.recordsConstructed.Add(1)
	r := newRecord()
	r.LoggerName = l.name
	r.Level = lv
	r.Message = message
	now := time.Now()
	r.Meta.Wall = now
	r.Meta.Monotonic = now.Sub(monotonicBase).Nanoseconds()
	r.Meta.GoroutineID = currentGoroutineID()
	if file, line, fn, ok := captureCaller(callerSkip); ok {
		r.Meta.File = file
		r.Meta.Line = line
		r.Meta.Function = fn
	}
	if len(attrs) > 0 {
		r.Meta.Attrs = append(r.Meta.Attrs, attrs...)
	}
	stampTraceContext(r, ctx)

	for _, f := range *l.filters.Load() {
		if !f.ShouldLog(r) {
			return
		}
	}

	l.dispatchLocal(r)
	if l.propagate.Load() && l.parent != nil {
		l.parent.propagateDispatch(r)
	}
}

// dispatchLocal hands r to every handler on this logger, in list order.
func (l *Logger) dispatchLocal(r *Record) {
	for _, h := range *l.handlers.Load() {
		h.Handle(r)
	}
}

// propagateDispatch is the non-filter-rechecking dispatch used when a
// record reaches an ancestor via propagation: the ancestor's filters are
// not re-run (documented Python-parity default, see DESIGN.md open
// question 1), and its handlers receive the record as is, since handlers
// have no level gating of their own.
func (l *Logger) propagateDispatch(r *Record) {
	l.dispatchLocal(r)
	if l.propagate.Load() && l.parent != nil {
		l.parent.propagateDispatch(r)
	}
}

// Convenience level methods. Each calls logDispatch directly (not Log) so
// callerSkip stays correct for every entry point alike.
func (l *Logger) Trace(msg string, attrs ...KV) {
	l.logDispatch(context.Background(), Trace, msg, attrs)
}
func (l *Logger) Debug(msg string, attrs ...KV) {
	l.logDispatch(context.Background(), Debug, msg, attrs)
}
func (l *Logger) Info(msg string, attrs ...KV) {
	l.logDispatch(context.Background(), Info, msg, attrs)
}
func (l *Logger) Warn(msg string, attrs ...KV) {
	l.logDispatch(context.Background(), Warn, msg, attrs)
}
func (l *Logger) Error(msg string, attrs ...KV) {
	l.logDispatch(context.Background(), Error, msg, attrs)
}
func (l *Logger) Critical(msg string, attrs ...KV) {
	l.logDispatch(context.Background(), Critical, msg, attrs)
}
