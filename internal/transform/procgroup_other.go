//go:build !unix

package transform

import "os/exec"

// killProcessGroup keeps the default cancellation, which kills the direct
// child only; WaitDelay stops Transform from waiting on its descendants.
func killProcessGroup(*exec.Cmd) {}
