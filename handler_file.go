package femtologging

import (
	"bufio"
	"os"
)

// fileResource is a plain, non-rotating file sink.
type fileResource struct {
	f   *os.File
	buf *bufio.Writer
}

func newFileResource(path string) (*fileResource, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileResource{f: f, buf: bufio.NewWriter(f)}, nil
}

func (r *fileResource) write(formatted []byte, _ *Record) error {
	_, err := r.buf.Write(formatted)
	return err
}

func (r *fileResource) flush() error { return r.buf.Flush() }

func (r *fileResource) close() error {
	if err := r.buf.Flush(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// NewFileHandler returns a handler appending formatted records to path.
// Construction errors (path unavailable, permission denied) are surfaced
// synchronously rather than deferred to the first write on the worker
// goroutine.
func NewFileHandler(path string, cfg HandlerConfig) (Handler, error) {
	res, err := newFileResource(path)
	if err != nil {
		return nil, err
	}
	return newHandlerCore(cfg, res), nil
}
