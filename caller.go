package femtologging

import (
	"bytes"
	"runtime"
	"strconv"
	"strings"
)

// captureCaller reports the file, line, and function name of the stack
// frame skip levels above its own invocation, via runtime.Caller/
// FuncForPC. The file path is shortened to its last two path segments and
// the function name to its unqualified form, matching Bhavyyadav25-loghq's
// caller.go. ok is false when the runtime could not resolve the frame
// (skip too large).
func captureCaller(skip int) (file string, line int, function string, ok bool) {
	pc, f, ln, resolved := runtime.Caller(skip)
	if !resolved {
		return "", 0, "", false
	}

	file = f
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		if idx2 := strings.LastIndexByte(file[:idx], '/'); idx2 >= 0 {
			file = file[idx2+1:]
		}
	}
	line = ln

	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
		if idx := strings.LastIndexByte(function, '.'); idx >= 0 {
			function = function[idx+1:]
		}
	}
	return file, line, function, true
}

// callerSkip is the fixed number of frames between a logging call
// (Log/LogCtx/Trace/Debug/Info/Warn/Error/Critical) and captureCaller's own
// call to runtime.Caller: the public method, logDispatch, and captureCaller
// itself. Every public entry point calls logDispatch directly, so this
// constant attributes the captured frame to the caller's call site
// regardless of which entry point was used.
const callerSkip = 3

// currentGoroutineID parses the "goroutine N [...]" header that
// runtime.Stack prints for the calling goroutine. The runtime exposes no
// public API for goroutine identity — it is deliberately unexported, since
// goroutine IDs carry no stability guarantee across reuse — and none of
// this tree's third-party dependencies expose one either, so this is the
// standard stdlib-only workaround used throughout the Go ecosystem for a
// best-effort thread/goroutine identifier in log output.
func currentGoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
