// Package tty decides whether console output should be ANSI-colored,
// grounded directly on quay-zlog's v2/tty_linux.go and v2/tty_unix.go
// ioctl-based isatty probes (golang.org/x/sys/unix, TIOCGWINSZ on Linux,
// TCGETS elsewhere) and its NO_COLOR/ZLOG_COLORS environment convention.
package tty

import "os"

// AutoColor reports whether stdout should be colorized: true when stdout is
// a terminal and NO_COLOR is unset, unless overridden by FEMTOLOG_COLORS
// ("always" or "never").
func AutoColor() bool {
	switch os.Getenv("FEMTOLOG_COLORS") {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty(os.Stdout)
}
