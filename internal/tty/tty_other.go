//go:build !unix

package tty

import "os"

// isatty has no golang.org/x/sys/unix-based probe outside unix platforms;
// femtologging's color auto-detection simply stays off there unless forced
// via FEMTOLOG_COLORS=always.
func isatty(f *os.File) bool { return false }
