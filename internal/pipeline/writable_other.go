//go:build !unix

package pipeline

import "os"

// checkWritable reports whether the current user may create files in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".themis-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
