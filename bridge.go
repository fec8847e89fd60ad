package femtologging

import (
	"github.com/go-logr/logr"
	"github.com/leynos/femtologging/internal/bridge"
)

// bridgeTarget adapts *Logger to internal/bridge.Target, translating
// between the root package's Level/KV types and the bridge package's
// dependency-light duplicates (kept import-cycle-free on purpose).
type bridgeTarget struct{ l *Logger }

func (b bridgeTarget) Log(level int8, message string, kv ...bridge.KV) {
	attrs := make([]KV, len(kv))
	for i, p := range kv {
		attrs[i] = KV{Key: p.Key, Value: p.Value}
	}
	b.l.Log(Level(level), message, attrs...)
}

func (b bridgeTarget) IsEnabledFor(level int8) bool {
	return b.l.IsEnabledFor(Level(level))
}

// InstallBridge wires the package's default registry into a logr.Logger
// via internal/bridge, implementing the C9 ecosystem bridge contract: a
// second call returns bridge.ErrAlreadyInstalled without disturbing the
// first installation.
func InstallBridge() (logr.Logger, error) {
	return installBridge(Default)
}

func installBridge(reg *Registry) (logr.Logger, error) {
	return bridge.Install(func(name string) bridge.Target {
		return bridgeTarget{l: reg.GetLogger(name)}
	}, nil)
}
