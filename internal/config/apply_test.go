package config

import (
	"bytes"
	"testing"

	femtologging "github.com/leynos/femtologging"
)

func TestApplyWiresStreamHandlerAndLevel(t *testing.T) {
	doc := `{
		"version": 1,
		"formatters": {"f1": {"format": "logfmt"}},
		"handlers": {"h1": {"class": "StreamHandler", "stream": "stdout", "formatter": "f1"}},
		"root": {"level": "WARN", "handlers": ["h1"]}
	}`
	cfg, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	reg := femtologging.NewRegistry()
	if err := Apply(cfg, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if reg.Root().Level() != femtologging.Warn {
		t.Fatalf("root level = %v, want Warn", reg.Root().Level())
	}
	if len(reg.Root().Handlers()) != 1 {
		t.Fatalf("root has %d handlers, want 1", len(reg.Root().Handlers()))
	}
	reg.Root().Handlers()[0].Close()
}

func TestApplyRegisteredFilterFactory(t *testing.T) {
	RegisterFilterFactory("test-always-admit", func(params map[string]any) (femtologging.Filter, error) {
		return femtologging.NamePrefix{Prefix: ""}, nil
	})

	doc := `{
		"version": 1,
		"filters": {"flt": {"()": "test-always-admit"}},
		"handlers": {"h1": {"class": "StreamHandler"}},
		"root": {"handlers": ["h1"], "filters": ["flt"]}
	}`
	cfg, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	reg := femtologging.NewRegistry()
	if err := Apply(cfg, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	reg.Root().Handlers()[0].Close()
}

func TestApplyUnregisteredFactoryErrors(t *testing.T) {
	doc := `{
		"version": 1,
		"filters": {"flt": {"()": "does-not-exist"}},
		"root": {"filters": ["flt"]}
	}`
	cfg, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	reg := femtologging.NewRegistry()
	if err := Apply(cfg, reg); err == nil {
		t.Fatal("expected an error for an unregistered filter factory")
	}
}

func TestApplyRotatingFileHandlerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"version": 1,
		"handlers": {"rf": {"class": "RotatingFileHandler", "path": "` + escapeJSON(dir+"/app.log") + `", "max_bytes": 1000, "backup_count": 2}},
		"root": {"handlers": ["rf"]}
	}`
	cfg, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	reg := femtologging.NewRegistry()
	if err := Apply(cfg, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	reg.Root().Info("hello from config")
	reg.Root().Handlers()[0].Close()
}

func TestApplyDisableExistingLoggersDisablesUnmentioned(t *testing.T) {
	reg := femtologging.NewRegistry()

	first := `{
		"version": 1,
		"handlers": {"h1": {"class": "StreamHandler"}},
		"loggers": {"svc.kept": {"handlers": ["h1"]}, "svc.dropped": {"handlers": ["h1"]}}
	}`
	cfg1, err := DecodeJSON([]byte(first))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Apply(cfg1, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	second := `{
		"version": 1,
		"disable_existing_loggers": true,
		"handlers": {"h2": {"class": "StreamHandler"}},
		"loggers": {"svc.kept": {"handlers": ["h2"]}}
	}`
	cfg2, err := DecodeJSON([]byte(second))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Apply(cfg2, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if reg.GetLogger("svc.kept").Disabled() {
		t.Fatal("svc.kept is named in the new config and must stay enabled")
	}
	if !reg.GetLogger("svc.dropped").Disabled() {
		t.Fatal("svc.dropped is absent from the new config and disable_existing_loggers was set, want disabled")
	}

	for _, h := range reg.GetLogger("svc.kept").Handlers() {
		h.Close()
	}
}

func TestApplyWithoutDisableExistingLoggersLeavesLoggersEnabled(t *testing.T) {
	reg := femtologging.NewRegistry()

	first := `{
		"version": 1,
		"handlers": {"h1": {"class": "StreamHandler"}},
		"loggers": {"svc.a": {"handlers": ["h1"]}}
	}`
	cfg1, err := DecodeJSON([]byte(first))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Apply(cfg1, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	second := `{
		"version": 1,
		"handlers": {"h2": {"class": "StreamHandler"}},
		"loggers": {"svc.b": {"handlers": ["h2"]}}
	}`
	cfg2, err := DecodeJSON([]byte(second))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Apply(cfg2, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if reg.GetLogger("svc.a").Disabled() {
		t.Fatal("without disable_existing_loggers, an unmentioned logger must stay enabled")
	}

	for _, h := range reg.GetLogger("svc.a").Handlers() {
		h.Close()
	}
	for _, h := range reg.GetLogger("svc.b").Handlers() {
		h.Close()
	}
}

func TestApplyReenablesReMentionedLogger(t *testing.T) {
	reg := femtologging.NewRegistry()

	first := `{
		"version": 1,
		"handlers": {"h1": {"class": "StreamHandler"}},
		"loggers": {"svc.c": {"handlers": ["h1"]}}
	}`
	cfg1, err := DecodeJSON([]byte(first))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Apply(cfg1, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	reg.GetLogger("svc.c").SetDisabled(true)

	second := `{
		"version": 1,
		"disable_existing_loggers": true,
		"handlers": {"h2": {"class": "StreamHandler"}},
		"loggers": {"svc.c": {"handlers": ["h2"]}}
	}`
	cfg2, err := DecodeJSON([]byte(second))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Apply(cfg2, reg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if reg.GetLogger("svc.c").Disabled() {
		t.Fatal("a logger re-mentioned in the new config must be re-enabled")
	}

	for _, h := range reg.GetLogger("svc.c").Handlers() {
		h.Close()
	}
}

func escapeJSON(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		if r == '\\' || r == '"' {
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
