//go:build unix

package ffmpeg

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup starts the child as the leader of a new process group so
// signals reach every process ffmpeg spawns.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateGroup sends SIGTERM to the child's process group.
func terminateGroup(p *os.Process) error {
	return signalGroup(p, unix.SIGTERM)
}

// killGroup sends SIGKILL to the child's process group.
func killGroup(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

func signalGroup(p *os.Process, sig unix.Signal) error {
	err := unix.Kill(-p.Pid, sig)
	if errors.Is(err, unix.ESRCH) {
		// No group by that id; fall back to the leader alone.
		return p.Signal(sig)
	}
	return err
}
