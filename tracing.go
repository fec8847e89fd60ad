package femtologging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// LogCtx is the context-aware counterpart to Log: it calls logDispatch
// directly (same callerSkip depth as every other entry point) so ctx's
// active span, if any, gets stamped onto the record's TraceID/SpanID.
// femtologging never starts or ends spans itself — it only reads whatever
// span the caller's context already carries.
func (l *Logger) LogCtx(ctx context.Context, lv Level, message string, attrs ...KV) {
	l.logDispatch(ctx, lv, message, attrs)
}

// stampTraceContext sets r.Meta.TraceID/SpanID from ctx's active span, if
// any. ctx may be context.Background() (the non-context-aware entry
// points' default), which simply yields an invalid span context and a
// no-op here.
func stampTraceContext(r *Record, ctx context.Context) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	r.Meta.TraceID = sc.TraceID().String()
	r.Meta.SpanID = sc.SpanID().String()
}
