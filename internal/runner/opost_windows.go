//go:build windows

package runner

// restoreOutputFlags is a no-op on Windows, where raw-mode input does
// not disable output processing.
func restoreOutputFlags(fd int) {}
