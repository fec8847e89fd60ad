package femtologging

import (
	"bufio"
	"io"
)

// streamResource adapts an io.Writer (typically os.Stdout/os.Stderr) into
// a workerResource. Buffered via bufio so periodic/idle flush has
// something to do; Close never closes the underlying writer when it is a
// standard stream, since the process does not own stdout/stderr.
type streamResource struct {
	w        io.Writer
	buf      *bufio.Writer
	closable io.Closer // non-nil only when w should be closed on shutdown
}

func newStreamResource(w io.Writer, closable io.Closer) *streamResource {
	return &streamResource{w: w, buf: bufio.NewWriter(w), closable: closable}
}

func (s *streamResource) write(formatted []byte, _ *Record) error {
	_, err := s.buf.Write(formatted)
	return err
}

func (s *streamResource) flush() error {
	return s.buf.Flush()
}

func (s *streamResource) close() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	if s.closable != nil {
		return s.closable.Close()
	}
	return nil
}

// NewStreamHandler returns a handler that writes formatted records to w,
// typically os.Stdout or os.Stderr.
func NewStreamHandler(w io.Writer, cfg HandlerConfig) Handler {
	return newHandlerCore(cfg, newStreamResource(w, nil))
}

// NewStreamHandlerClosable is like NewStreamHandler but also closes w (via
// closer) on Close(), for writers the handler owns exclusively.
func NewStreamHandlerClosable(w io.Writer, closer io.Closer, cfg HandlerConfig) Handler {
	return newHandlerCore(cfg, newStreamResource(w, closer))
}
