package femtologging

import (
	"math/rand"
	"net"
	"time"
)

// SocketConfig configures a TCP (or unix-domain) socket handler: a thin
// workerResource over a net.Conn, not a distributed log-shipping pipeline
// in its own right.
type SocketConfig struct {
	Network       string // "tcp" (default) or "unix"
	Address       string
	MaxRetries    int           // transient reconnect attempts before degraded state
	BackoffBase   time.Duration // default 100ms
	BackoffMax    time.Duration // default 5s
	DialTimeout   time.Duration // default 5s
}

// socketResource reconnects with jittered exponential backoff on transient
// failure.
type socketResource struct {
	cfg  SocketConfig
	conn net.Conn
}

func newSocketResource(cfg SocketConfig) (*socketResource, error) {
	if cfg.Network == "" {
		cfg.Network = "tcp"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 100 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 5 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	conn, err := net.DialTimeout(cfg.Network, cfg.Address, cfg.DialTimeout)
	if err != nil {
		return nil, err
	}
	return &socketResource{cfg: cfg, conn: conn}, nil
}

func (s *socketResource) write(formatted []byte, _ *Record) error {
	if s.conn == nil {
		if err := s.reconnect(); err != nil {
			return err
		}
	}
	_, err := s.conn.Write(formatted)
	if err != nil {
		s.conn.Close()
		s.conn = nil
		return s.reconnectAndWrite(formatted)
	}
	return nil
}

func (s *socketResource) reconnectAndWrite(formatted []byte) error {
	if err := s.reconnect(); err != nil {
		return err
	}
	_, err := s.conn.Write(formatted)
	return err
}

// reconnect retries dialing with jittered exponential backoff up to
// MaxRetries before giving up; the caller's write error then trips the
// handler's consecutive-failure counter toward degraded state.
func (s *socketResource) reconnect() error {
	backoff := s.cfg.BackoffBase
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		conn, err := net.DialTimeout(s.cfg.Network, s.cfg.Address, s.cfg.DialTimeout)
		if err == nil {
			s.conn = conn
			return nil
		}
		lastErr = err
		jitter := time.Duration(rand.Int63n(int64(backoff) + 1))
		time.Sleep(backoff/2 + jitter/2)
		backoff *= 2
		if backoff > s.cfg.BackoffMax {
			backoff = s.cfg.BackoffMax
		}
	}
	return lastErr
}

func (s *socketResource) flush() error { return nil }

func (s *socketResource) close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// NewSocketHandler returns a handler that writes formatted records as
// newline-delimited frames over a TCP (or unix-domain) connection.
func NewSocketHandler(cfg SocketConfig, hcfg HandlerConfig) (Handler, error) {
	res, err := newSocketResource(cfg)
	if err != nil {
		return nil, err
	}
	return newHandlerCore(hcfg, res), nil
}
