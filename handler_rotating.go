package femtologging

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/leynos/femtologging/internal/metrics"
)

// RotatingConfig configures the size-triggered rollover state machine.
type RotatingConfig struct {
	Path        string
	MaxBytes    int64 // 0 disables rotation
	BackupCount int   // 0 disables history (truncate in place)
	Compress    bool  // gzip-compress rotated backups
}

// rotatingResource tracks byte count (the length of the formatted record,
// measured before it is written) and cascades backups once the base file
// would cross the configured threshold. Shaped after Bhavyyadav25-loghq's
// file.go FileWriter (mutex-free here since the resource is exclusively
// owned by one worker goroutine), re-sequenced from that source's
// timestamp-suffix naming to an indexed base.1..base.N cascade.
type rotatingResource struct {
	cfg          RotatingConfig
	f            *os.File
	buf          *bufio.Writer
	currentBytes int64
	metricsID    string
}

func newRotatingResource(cfg RotatingConfig, metricsID string) (*rotatingResource, error) {
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &rotatingResource{
		cfg:          cfg,
		f:            f,
		buf:          bufio.NewWriter(f),
		currentBytes: info.Size(),
		metricsID:    metricsID,
	}, nil
}

func (r *rotatingResource) write(formatted []byte, _ *Record) error {
	encoded := int64(len(formatted))
	// A record whose encoded length exactly equals max_bytes must still
	// trigger rollover, so the threshold below is inclusive rather than a
	// strict ">".
	if r.cfg.MaxBytes > 0 && (r.currentBytes+encoded >= r.cfg.MaxBytes || encoded >= r.cfg.MaxBytes) {
		if err := r.rotate(); err != nil {
			return err
		}
	}
	if _, err := r.buf.Write(formatted); err != nil {
		return err
	}
	r.currentBytes += encoded
	return nil
}

func (r *rotatingResource) backupName(i int) string {
	if r.cfg.Compress {
		return fmt.Sprintf("%s.%d.gz", r.cfg.Path, i)
	}
	return fmt.Sprintf("%s.%d", r.cfg.Path, i)
}

// rotate flushes and closes the current file, cascade-renames from the
// highest index downward, prunes beyond backup_count, truncates in place
// if backup_count == 0, then reopens a fresh base file with its byte
// counter reset.
func (r *rotatingResource) rotate() error {
	if err := r.buf.Flush(); err != nil {
		return err
	}
	// Windows-safe: the handle must be closed before anything renames the
	// active path.
	if err := r.f.Close(); err != nil {
		return err
	}

	if r.cfg.BackupCount > 0 {
		// Prune anything beyond backup_count left over from a prior,
		// larger configuration.
		for i := r.cfg.BackupCount + 1; ; i++ {
			name := r.backupName(i)
			if _, err := os.Stat(name); os.IsNotExist(err) {
				break
			}
			os.Remove(r.backupName(i))
		}
		for i := r.cfg.BackupCount - 1; i >= 1; i-- {
			src := r.backupName(i)
			if _, err := os.Stat(src); os.IsNotExist(err) {
				continue
			}
			dst := r.backupName(i + 1)
			os.Remove(dst)
			if err := os.Rename(src, dst); err != nil {
				return err
			}
		}
		if err := r.archiveBase(); err != nil {
			return err
		}
	} else {
		// No history retained: truncate base in place.
		if err := os.Truncate(r.cfg.Path, 0); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(r.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	r.f = f
	r.buf = bufio.NewWriter(f)
	r.currentBytes = 0
	metrics.Rotations.WithLabelValues(r.metricsID).Inc()
	return nil
}

// archiveBase moves the just-closed base file to backup index 1, either by
// a plain rename or, when compression is enabled, by gzip-compressing it
// into the backup and removing the uncompressed original.
func (r *rotatingResource) archiveBase() error {
	dst := r.backupName(1)
	os.Remove(dst)
	if !r.cfg.Compress {
		return os.Rename(r.cfg.Path, dst)
	}
	src, err := os.Open(r.cfg.Path)
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(r.cfg.Path)
}

func (r *rotatingResource) flush() error { return r.buf.Flush() }

func (r *rotatingResource) close() error {
	if err := r.buf.Flush(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// NewRotatingFileHandler returns a handler implementing the rotating-file
// worker contract (C5): size-threshold cascade rollover, with optional
// gzip-compressed backups.
func NewRotatingFileHandler(cfg RotatingConfig, hcfg HandlerConfig) (Handler, error) {
	id := cfg.Path
	res, err := newRotatingResource(cfg, id)
	if err != nil {
		return nil, err
	}
	return newHandlerCore(hcfg, res), nil
}
