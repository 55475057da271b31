package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/backmassage/themis/internal/logging"
)

// lockSuffix names lock files.
const lockSuffix = ".lock"

// lockDir holds one lock file per output path. Lock files are reused and
// never removed: removing a lock file lets two holders lock different inodes
// of the same name.
var lockDir = filepath.Join(os.TempDir(), fmt.Sprintf("themis-%d-locks", os.Getuid()))

// lockPath returns the lock file guarding output, keyed by its absolute path.
func lockPath(output string) string {
	abs, err := filepath.Abs(output)
	if err != nil {
		abs = filepath.Clean(output)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:16])+lockSuffix)
}

// lockOutput takes the advisory lock guarding output so two jobs, in this
// process or another, never write the same file. The lock file records the
// owning job ID and the output path.
func lockOutput(output, owner string, log *logging.Logger) (*flock.Flock, error) {
	if err := os.MkdirAll(lockDir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(lockPath(output))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", output, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, output)
	}
	if err := os.WriteFile(fl.Path(), []byte(owner+" "+output+"\n"), 0o600); err != nil {
		log.Warn("Could not record lock owner in %s: %v", fl.Path(), err)
	}
	return fl, nil
}

// unlockOutput releases the lock. The file stays for the next holder.
func unlockOutput(fl *flock.Flock, log *logging.Logger) {
	if err := fl.Unlock(); err != nil {
		log.Warn("Could not release lock %s: %v", fl.Path(), err)
	}
}
