//go:build !unix

package ffmpeg

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op where process groups are unavailable.
func setProcessGroup(*exec.Cmd) {}

// terminateGroup kills the child; there is no gentler signal here.
func terminateGroup(p *os.Process) error {
	return p.Kill()
}

// killGroup kills the child.
func killGroup(p *os.Process) error {
	return p.Kill()
}
