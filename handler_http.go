package femtologging

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// HTTPConfig configures an HTTP handler that POSTs each formatted record
// (or batch, in a future extension) to a collector endpoint. Like
// SocketConfig, this is an instance of the same worker contract rather than
// a separate core — the Non-goal excludes distributed shipping as a
// *primary* path, not this variant's existence.
type HTTPConfig struct {
	URL         string
	Method      string // default POST
	ContentType string // default "text/plain; charset=utf-8"
	Timeout     time.Duration
	Headers     map[string]string
}

type httpResource struct {
	cfg    HTTPConfig
	client *http.Client
}

func newHTTPResource(cfg HTTPConfig) *httpResource {
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "text/plain; charset=utf-8"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &httpResource{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (h *httpResource) write(formatted []byte, _ *Record) error {
	req, err := http.NewRequest(h.cfg.Method, h.cfg.URL, bytes.NewReader(formatted))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", h.cfg.ContentType)
	for k, v := range h.cfg.Headers {
		req.Header.Set(k, v)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("femtologging: http handler: unexpected status %s", resp.Status)
	}
	return nil
}

func (h *httpResource) flush() error { return nil }
func (h *httpResource) close() error { return nil }

// NewHTTPHandler returns a handler that POSTs each formatted record to a
// collector endpoint.
func NewHTTPHandler(cfg HTTPConfig, hcfg HandlerConfig) Handler {
	return newHandlerCore(hcfg, newHTTPResource(cfg))
}
