package tty

import "testing"

func TestAutoColorEnvOverrides(t *testing.T) {
	t.Setenv("FEMTOLOG_COLORS", "always")
	t.Setenv("NO_COLOR", "1")
	if !AutoColor() {
		t.Fatal("FEMTOLOG_COLORS=always must win over NO_COLOR")
	}

	t.Setenv("FEMTOLOG_COLORS", "never")
	t.Setenv("NO_COLOR", "")
	if AutoColor() {
		t.Fatal("FEMTOLOG_COLORS=never must disable color regardless of isatty")
	}
}

func TestAutoColorRespectsNoColor(t *testing.T) {
	t.Setenv("FEMTOLOG_COLORS", "")
	t.Setenv("NO_COLOR", "1")
	if AutoColor() {
		t.Fatal("NO_COLOR set should disable auto color")
	}
}
