package femtologging

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/leynos/femtologging/internal/metrics"
)

// Handler is the external, polymorphic surface every handler variant
// (stream, file, rotating-file, socket, HTTP) exposes to loggers. Every
// variant's constructor returns a *handlerCore driving a variant-specific
// workerResource; the core owns the bounded channel, the worker goroutine,
// and the flush/shutdown protocol; this
// plumbing is new code — no repo in the retrieval pack implements an
// MPSC worker-per-handler dispatch loop, every inspected logging library
// calls its handler synchronously from the producer. The external method
// names (Handle/Flush/Close) are kept aligned with sawmill's Handler
// interface in interfaces.go so the surface a caller sees matches that
// shape even though the implementation below it does not.
type Handler interface {
	Handle(r *Record)
	Flush() bool
	Close()
}

// OverflowKind selects what happens when a handler's bounded channel is
// full at enqueue time.
type OverflowKind int

const (
	// OverflowDrop performs a non-blocking try-enqueue; on a full channel
	// the record is discarded, a counter is incremented, and a
	// rate-limited diagnostic is emitted.
	OverflowDrop OverflowKind = iota
	// OverflowBlock blocks the producer until channel space is available
	// or the channel is closed.
	OverflowBlock
	// OverflowTimeout blocks up to Timeout before behaving as Drop.
	OverflowTimeout
)

// OverflowPolicy describes how a handler's enqueue path behaves under
// back-pressure. Timeout is only meaningful when Kind == OverflowTimeout.
type OverflowPolicy struct {
	Kind    OverflowKind
	Timeout time.Duration
}

// workerResource is the resource-specific state machine a handlerCore
// drives: a stream writer, an open file, rotating-file state, a socket
// frame encoder, or an HTTP client. Every method is called exclusively
// from the handler's single worker goroutine.
type workerResource interface {
	// write is handed the already-formatted bytes for one record and the
	// record itself (every current resource uses only the bytes; the
	// rotating handler measures their length before deciding to roll over).
	write(formatted []byte, r *Record) error
	flush() error
	close() error
}

type command struct {
	rec      *Record
	flushAck chan bool
	shutdown bool
}

// handlerCore implements the full worker contract: bounded channel,
// overflow policy, flush acknowledgement, graceful shutdown, and a
// degraded-drop state entered on persistent resource failure.
type handlerCore struct {
	id        string
	ch        chan command
	policy    OverflowPolicy
	formatter Formatter
	resource  workerResource

	flushTimeout  time.Duration
	flushEvery    int           // records, for file-style resources; 0 disables periodic flush
	flushInterval time.Duration // idleness, for stream-style resources; 0 disables

	degraded             atomic.Bool
	dropCount            atomic.Int64
	consecutiveFailures  int // worker-goroutine-only, no synchronization needed

	wg   sync.WaitGroup
	once sync.Once

	diag diagnosticSink
}

// HandlerConfig bundles a handler's construction parameters: queue
// capacity, overflow policy, and periodic-flush thresholds.
type HandlerConfig struct {
	Capacity      int
	Policy        OverflowPolicy
	FlushTimeout  time.Duration // default 1s if zero
	FlushEvery    int           // file-style: flush after N records
	FlushInterval time.Duration // stream-style: flush after this much idleness
	Formatter     Formatter
}

func newHandlerCore(cfg HandlerConfig, resource workerResource) *handlerCore {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = time.Second
	}
	if cfg.Formatter == nil {
		cfg.Formatter = NewTextFormatter()
	}
	h := &handlerCore{
		id:            uuid.NewString(),
		ch:            make(chan command, cfg.Capacity),
		policy:        cfg.Policy,
		formatter:     cfg.Formatter,
		resource:      resource,
		flushTimeout:  cfg.FlushTimeout,
		flushEvery:    cfg.FlushEvery,
		flushInterval: cfg.FlushInterval,
		diag:          defaultDiagnostics,
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Handle implements the producer path for handle(record): a non-blocking,
// blocking, or bounded-blocking enqueue depending on the configured
// overflow policy.
func (h *handlerCore) Handle(r *Record) {
	cmd := command{rec: r}
	switch h.policy.Kind {
	case OverflowBlock:
		defer h.recoverClosedChannel()
		h.ch <- cmd
	case OverflowTimeout:
		defer h.recoverClosedChannel()
		timer := time.NewTimer(h.policy.Timeout)
		defer timer.Stop()
		select {
		case h.ch <- cmd:
		case <-timer.C:
			h.drop("timeout")
		}
	default: // OverflowDrop
		defer h.recoverClosedChannel()
		select {
		case h.ch <- cmd:
		default:
			h.drop("full")
		}
	}
	metrics.QueueDepth.WithLabelValues(h.id).Set(float64(len(h.ch)))
}

// recoverClosedChannel turns a send-on-closed-channel panic (possible only
// if a producer races a Close()) into the same diagnostic-and-discard path
// as an ordinary drop.
func (h *handlerCore) recoverClosedChannel() {
	if rec := recover(); rec != nil {
		h.drop("closed")
	}
}

func (h *handlerCore) drop(reason string) {
	h.dropCount.Add(1)
	metrics.Drops.WithLabelValues(h.id, reason).Inc()
	h.diag.Reportf("handler %s: dropped record (%s), total drops=%d", h.id, reason, h.dropCount.Load())
}

// Flush sends a Flush command and waits up to flushTimeout for the
// worker's acknowledgement.
func (h *handlerCore) Flush() bool {
	if h.degraded.Load() {
		return false
	}
	ack := make(chan bool, 1)
	select {
	case h.ch <- command{flushAck: ack}:
	default:
		// Channel momentarily full: still attempt a blocking send bounded
		// by the flush timeout rather than failing outright.
		timer := time.NewTimer(h.flushTimeout)
		defer timer.Stop()
		select {
		case h.ch <- command{flushAck: ack}:
		case <-timer.C:
			return false
		}
	}
	select {
	case ok := <-ack:
		return ok
	case <-time.After(h.flushTimeout):
		h.diag.Reportf("handler %s: flush timed out after %s", h.id, h.flushTimeout)
		return false
	}
}

// Close sends Shutdown and joins the worker with a bounded wait. If the
// worker does not terminate within flushTimeout the join is abandoned with
// a diagnostic rather than deadlocking the caller.
func (h *handlerCore) Close() {
	h.once.Do(func() {
		h.ch <- command{shutdown: true}
		close(h.ch)
	})
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(h.flushTimeout):
		h.diag.Reportf("handler %s: worker did not terminate within %s, abandoning join", h.id, h.flushTimeout)
	}
}

// run is the worker goroutine's loop: the only code path that ever touches
// h.resource.
func (h *handlerCore) run() {
	defer h.wg.Done()
	sinceFlush := 0
	var idleTimer *time.Timer
	var idleC <-chan time.Time
	if h.flushInterval > 0 {
		idleTimer = time.NewTimer(h.flushInterval)
		idleC = idleTimer.C
		defer idleTimer.Stop()
	}

	for {
		select {
		case cmd, ok := <-h.ch:
			if !ok {
				h.finalize()
				return
			}
			if cmd.shutdown {
				h.drainRemaining()
				h.finalize()
				return
			}
			if cmd.flushAck != nil {
				cmd.flushAck <- h.tryFlush()
				sinceFlush = 0
				if idleTimer != nil {
					resetTimer(idleTimer, h.flushInterval)
				}
				continue
			}
			h.process(cmd.rec)
			sinceFlush++
			if h.flushEvery > 0 && sinceFlush >= h.flushEvery {
				h.tryFlush()
				sinceFlush = 0
			}
			if idleTimer != nil {
				resetTimer(idleTimer, h.flushInterval)
			}
		case <-idleC:
			h.tryFlush()
			sinceFlush = 0
			resetTimer(idleTimer, h.flushInterval)
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// drainRemaining processes whatever is still buffered in the channel once
// the worker has dequeued Shutdown, returning as soon as the channel is
// empty or closed. Close closes the channel right after enqueuing
// Shutdown, so no new records are admitted from that point on.
func (h *handlerCore) drainRemaining() {
	for {
		select {
		case cmd, ok := <-h.ch:
			if !ok {
				return
			}
			if cmd.flushAck != nil {
				cmd.flushAck <- h.tryFlush()
				continue
			}
			if !cmd.shutdown {
				h.process(cmd.rec)
			}
		default:
			return
		}
	}
}

func (h *handlerCore) process(r *Record) {
	if h.degraded.Load() {
		h.drop("degraded")
		return
	}
	formatted, err := h.formatter.Format(r)
	if err != nil {
		h.diag.Reportf("handler %s: format error: %v", h.id, err)
		return
	}
	if err := h.resource.write(formatted, r); err != nil {
		h.onWriteError(err)
		return
	}
	h.consecutiveFailures = 0
}

// onWriteError implements a transient-vs-persistent distinction: a single
// failure is reported but the worker stays live; repeated failures in a
// row trip degraded state so the channel keeps draining and producers
// never block on a dead resource.
const consecutiveFailureThreshold = 5

func (h *handlerCore) onWriteError(err error) {
	h.consecutiveFailures++
	h.diag.Reportf("handler %s: write error (%d consecutive): %v", h.id, h.consecutiveFailures, err)
	if h.consecutiveFailures >= consecutiveFailureThreshold {
		h.enterDegraded()
	}
}

func (h *handlerCore) enterDegraded() {
	if h.degraded.CompareAndSwap(false, true) {
		metrics.Degraded.WithLabelValues(h.id).Set(1)
		h.diag.Reportf("handler %s: entering degraded state after repeated write failures", h.id)
	}
}

func (h *handlerCore) tryFlush() bool {
	if h.degraded.Load() {
		return false
	}
	if err := h.resource.flush(); err != nil {
		h.diag.Reportf("handler %s: flush error: %v", h.id, err)
		return false
	}
	return true
}

func (h *handlerCore) finalize() {
	h.tryFlush()
	if err := h.resource.close(); err != nil {
		h.diag.Reportf("handler %s: close error: %v", h.id, err)
	}
	metrics.QueueDepth.WithLabelValues(h.id).Set(0)
}
