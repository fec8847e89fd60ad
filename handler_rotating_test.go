package femtologging

import (
	"os"
	"path/filepath"
	"testing"
)

// TestRotatingResourceCascade reproduces the worked rotation scenario: four
// 19-byte records, max_bytes=20, backup_count=2. Record A alone fits
// (19 < 20); B's write would push the base past 20 so B triggers rotation
// first (A -> base.1) and becomes the new base; C rotates B to base.1 and
// shifts A to base.2; D rotates C to base.1 and B to base.2, replacing A,
// which is gone for good since backup_count caps history at 2.
// Final state: base=D, base.1=C, base.2=B, no base.3.
func TestRotatingResourceCascade(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	res, err := newRotatingResource(RotatingConfig{Path: path, MaxBytes: 20, BackupCount: 2}, "test")
	if err != nil {
		t.Fatalf("newRotatingResource: %v", err)
	}
	defer res.close()

	records := [][]byte{
		[]byte("AAAAAAAAAAAAAAAAAA\n"), // 19 bytes, "A" record
		[]byte("BBBBBBBBBBBBBBBBBB\n"), // 19 bytes
		[]byte("CCCCCCCCCCCCCCCCCC\n"),
		[]byte("DDDDDDDDDDDDDDDDDD\n"),
	}
	for _, rec := range records {
		if err := res.write(rec, nil); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := res.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	base, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read base: %v", err)
	}
	if string(base) != string(records[3]) {
		t.Errorf("base = %q, want %q (D)", base, records[3])
	}

	b1, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("read base.1: %v", err)
	}
	if string(b1) != string(records[2]) {
		t.Errorf("base.1 = %q, want %q (C)", b1, records[2])
	}

	b2, err := os.ReadFile(path + ".2")
	if err != nil {
		t.Fatalf("read base.2: %v", err)
	}
	if string(b2) != string(records[1]) {
		t.Errorf("base.2 = %q, want %q (B)", b2, records[1])
	}

	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("base.3 must not exist; backup_count=2 caps history")
	}
}

func TestRotatingResourceZeroBackupCountTruncatesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	res, err := newRotatingResource(RotatingConfig{Path: path, MaxBytes: 10, BackupCount: 0}, "test2")
	if err != nil {
		t.Fatalf("newRotatingResource: %v", err)
	}
	defer res.close()

	if err := res.write([]byte("0123456789AB"), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := res.write([]byte("next"), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	res.flush()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("backup_count=0 must never create a base.1")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read base: %v", err)
	}
	if string(got) != "next" {
		t.Errorf("base = %q, want %q", got, "next")
	}
}

func TestRotatingResourceNoRotationBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	res, err := newRotatingResource(RotatingConfig{Path: path, MaxBytes: 1000, BackupCount: 3}, "test3")
	if err != nil {
		t.Fatalf("newRotatingResource: %v", err)
	}
	defer res.close()

	res.write([]byte("small"), nil)
	res.flush()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("no rotation should occur below the byte threshold")
	}
}
