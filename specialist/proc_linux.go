//go:build linux

package specialist

import (
	"os/exec"
	"syscall"
)

// setPlatformSpecificAttrs makes the kernel kill the sidecar when the pilot dies.
func setPlatformSpecificAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGKILL,
	}
}
