// Package bridge implements an ecosystem bridge: an adapter from a
// generic "log façade" interface onto the registry's Logger.Log. Among
// the pack's dependencies, github.com/go-logr/logr is exactly that
// generic façade trait — a LogSink interface any Go library can log
// through without depending on a concrete implementation — so it is
// adopted directly rather than inventing a bespoke facade type.
package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// Target is the minimal surface the bridge needs from the core. The root
// package satisfies it with a small adapter around *femtologging.Logger
// (its Log takes femtologging's own Level and KV types), so this package
// never imports the root package, which imports it (avoiding an import
// cycle).
type Target interface {
	Log(level int8, message string, kv ...KV)
	IsEnabledFor(level int8) bool
}

// KV mirrors femtologging.KV's shape; duplicated here rather than imported
// to keep this package import-cycle-free and dependency-light.
type KV struct {
	Key   string
	Value string
}

// LevelMapper converts a logr verbosity (V(n), 0 = info, higher = more
// verbose / more like debug or trace) and an error flag into a
// femtologging level.
type LevelMapper func(verbosity int, isError bool) int8

var (
	installed atomic.Bool
	installMu sync.Mutex
)

// ErrAlreadyInstalled is returned by Install when the bridge has already
// been installed once in this process; a second install attempt fails
// with a distinct error rather than silently overwriting the first.
var ErrAlreadyInstalled = fmt.Errorf("femtologging/bridge: already installed")

// GetLogger resolves a target by name; supplied by the caller (typically a
// closure wrapping a femtologging Registry's GetLogger in an adapter) to
// avoid an import cycle.
type GetLogger func(name string) Target

// sink implements logr.LogSink by forwarding events into the target
// resolved by name, translating external log events (level, target,
// message) into Registry.GetLogger(target).Log(level, message).
type sink struct {
	get     GetLogger
	name    string
	values  []KV
	mapper  LevelMapper
}

// Install wires a logr.Logger backed by the femtologging registry. It is
// idempotent-guarded: a second call returns ErrAlreadyInstalled and does
// not disturb the first installation.
func Install(get GetLogger, mapper LevelMapper) (logr.Logger, error) {
	installMu.Lock()
	defer installMu.Unlock()
	if !installed.CompareAndSwap(false, true) {
		return logr.Logger{}, ErrAlreadyInstalled
	}
	if mapper == nil {
		mapper = defaultMapper
	}
	s := &sink{get: get, mapper: mapper}
	return logr.New(s), nil
}

// Uninstall clears the idempotency guard, for test isolation only.
func Uninstall() { installed.Store(false) }

func defaultMapper(verbosity int, isError bool) int8 {
	if isError {
		return 5 // Error
	}
	switch {
	case verbosity <= 0:
		return 3 // Info
	case verbosity == 1:
		return 2 // Debug
	default:
		return 1 // Trace
	}
}

func (s *sink) Init(logr.RuntimeInfo) {}

func (s *sink) Enabled(level int) bool {
	return s.get(s.name).IsEnabledFor(s.mapper(level, false))
}

func (s *sink) Info(level int, msg string, keysAndValues ...any) {
	s.get(s.name).Log(s.mapper(level, false), msg, s.merge(keysAndValues)...)
}

func (s *sink) Error(err error, msg string, keysAndValues ...any) {
	kv := s.merge(keysAndValues)
	if err != nil {
		kv = append(kv, KV{Key: "error", Value: err.Error()})
	}
	s.get(s.name).Log(s.mapper(0, true), msg, kv...)
}

func (s *sink) WithValues(keysAndValues ...any) logr.LogSink {
	next := *s
	next.values = s.merge(keysAndValues)
	return &next
}

func (s *sink) WithName(name string) logr.LogSink {
	next := *s
	if next.name == "" {
		next.name = name
	} else {
		next.name = next.name + "." + name
	}
	return &next
}

func (s *sink) merge(keysAndValues []any) []KV {
	out := make([]KV, 0, len(s.values)+len(keysAndValues)/2)
	out = append(out, s.values...)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, _ := keysAndValues[i].(string)
		out = append(out, KV{Key: key, Value: fmt.Sprintf("%v", keysAndValues[i+1])})
	}
	return out
}

var _ logr.LogSink = (*sink)(nil)
