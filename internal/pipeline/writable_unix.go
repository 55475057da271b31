//go:build unix

package pipeline

import "golang.org/x/sys/unix"

// checkWritable reports whether the current user may create files in dir.
func checkWritable(dir string) error {
	return unix.Access(dir, unix.W_OK|unix.X_OK)
}
