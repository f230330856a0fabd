//go:build !unix

package util

import "os"

// Abort terminates the process with exit status 2.
func Abort() {
	os.Exit(2)
}
