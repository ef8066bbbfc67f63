//go:build windows

package supervisor

import (
	"os"
	"os/exec"
)

// Windows has no SIGTERM delivery through os.Process; Kill is the only option.
var terminationSignal os.Signal = os.Kill

func setProcAttr(cmd *exec.Cmd) {}

func signalProcess(p *os.Process, sig os.Signal) error { return p.Signal(sig) }
