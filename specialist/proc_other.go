//go:build !linux

package specialist

import "os/exec"

// Pdeathsig only exists on Linux. Elsewhere the sidecar is stopped through
// the context given to exec.CommandContext.
func setPlatformSpecificAttrs(_ *exec.Cmd) {}
