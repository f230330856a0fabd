package util

import (
	"unsafe"
)

// ByteToString converts byte slice to a string without memory allocation.
// The slice must not be modified afterwards.
func ByteToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	/* #nosec G103 */
	return unsafe.String(&b[0], len(b))
}

// StringToByte converts string to a byte slice without memory allocation.
// The returned slice is read-only.
func StringToByte(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	/* #nosec G103 */
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
