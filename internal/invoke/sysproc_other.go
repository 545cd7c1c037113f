//go:build !windows

package invoke

import "os/exec"

func hideWindow(*exec.Cmd) {}
