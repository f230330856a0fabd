//go:build unix

package util

import (
	"os"

	"golang.org/x/sys/unix"
)

// Abort terminates the process with SIGABRT so a core dump can be taken.
// If the signal is somehow not delivered it falls back to exit status 2.
func Abort() {
	_ = unix.Kill(unix.Getpid(), unix.SIGABRT)
	os.Exit(2)
}
