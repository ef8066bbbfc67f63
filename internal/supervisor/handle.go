package supervisor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"seleniumd/internal/invocation"
)

// Handle is a running operating-system process.
type Handle interface {
	PID() int
	// Stdout and Stderr stream the process output until it exits. Either may be nil.
	Stdout() io.Reader
	Stderr() io.Reader
	// Signal delivers sig. It returns os.ErrProcessDone once the process has exited.
	Signal(sig os.Signal) error
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
}

// Spawner creates a process for an invocation.
type Spawner interface {
	Spawn(inv invocation.Invocation) (Handle, error)
}

// ExecSpawner starts processes with os/exec. The child inherits the current
// environment plus Invocation.Env and runs in its own process group.
type ExecSpawner struct {
	Dir string
}

func (s ExecSpawner) Spawn(inv invocation.Invocation) (Handle, error) {
	if strings.TrimSpace(inv.Path) == "" {
		return nil, errors.New("executable is empty")
	}
	cmd := exec.Command(inv.Path, inv.Args...)
	cmd.Dir = s.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	setProcAttr(cmd)

	// Plain os.Pipe so cmd.Wait never closes the read ends under our scanners.
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	cmd.Stdout = outW
	cmd.Stderr = errW
	if err := cmd.Start(); err != nil {
		for _, f := range []*os.File{outR, outW, errR, errW} {
			_ = f.Close()
		}
		return nil, err
	}
	// The child holds its own copies now.
	_ = outW.Close()
	_ = errW.Close()

	h := &execHandle{cmd: cmd, stdout: outR, stderr: errR, done: make(chan struct{})}
	go h.wait()
	return h, nil
}

type execHandle struct {
	cmd    *exec.Cmd
	stdout *os.File
	stderr *os.File
	done   chan struct{}

	mu      sync.Mutex
	waitErr error
}

func (h *execHandle) PID() int              { return h.cmd.Process.Pid }
func (h *execHandle) Stdout() io.Reader     { return h.stdout }
func (h *execHandle) Stderr() io.Reader     { return h.stderr }
func (h *execHandle) Done() <-chan struct{} { return h.done }

func (h *execHandle) Signal(sig os.Signal) error {
	select {
	case <-h.done:
		return os.ErrProcessDone
	default:
	}
	return signalProcess(h.cmd.Process, sig)
}

// ExitErr returns the error from Wait once Done is closed.
func (h *execHandle) ExitErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.waitErr
}

func (h *execHandle) wait() {
	err := h.cmd.Wait()
	h.mu.Lock()
	h.waitErr = err
	h.mu.Unlock()
	close(h.done)
}
