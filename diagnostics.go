package femtologging

import "github.com/leynos/femtologging/internal/diagnostics"

// diagnosticSink is the minimal surface the core needs from
// internal/diagnostics.Sink, kept as an interface so tests can substitute a
// capturing stub without reaching into the internal package.
type diagnosticSink interface {
	Reportf(format string, args ...any)
}

// defaultDiagnostics is the process-wide sink backing every package-level
// diagnostic in this package: filter panics, channel overflow, worker
// degraded-state, and shutdown/flush timeouts. It is never propagated back
// to a producer's log() call; diagnostics are observed out of band.
var defaultDiagnostics diagnosticSink = diagnostics.Default
