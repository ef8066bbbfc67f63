package supervisor

import (
	"io"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"seleniumd/internal/invocation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeHandle is an in-memory process. Output is written through io.Pipe and
// every Signal call is recorded.
type fakeHandle struct {
	pid        int
	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter
	done       chan struct{}
	once       sync.Once

	mu           sync.Mutex
	signals      []os.Signal
	signalErr    error
	exitOnSignal bool
}

func newFakeHandle(pid int) *fakeHandle {
	h := &fakeHandle{pid: pid, done: make(chan struct{})}
	h.outR, h.outW = io.Pipe()
	h.errR, h.errW = io.Pipe()
	return h
}

func (h *fakeHandle) PID() int              { return h.pid }
func (h *fakeHandle) Stdout() io.Reader     { return h.outR }
func (h *fakeHandle) Stderr() io.Reader     { return h.errR }
func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Signal(sig os.Signal) error {
	h.mu.Lock()
	h.signals = append(h.signals, sig)
	err, exit := h.signalErr, h.exitOnSignal
	h.mu.Unlock()
	if err != nil {
		return err
	}
	select {
	case <-h.done:
		return os.ErrProcessDone
	default:
	}
	if exit {
		h.exit()
	}
	return nil
}

func (h *fakeHandle) signalCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.signals)
}

func (h *fakeHandle) stdout(line string) { _, _ = h.outW.Write([]byte(line + "\n")) }
func (h *fakeHandle) stderr(line string) { _, _ = h.errW.Write([]byte(line + "\n")) }

// exit closes both streams and marks the process reaped.
func (h *fakeHandle) exit() {
	h.once.Do(func() {
		_ = h.outW.Close()
		_ = h.errW.Close()
		close(h.done)
	})
}

// fakeSpawner hands out fakeHandles and runs onSpawn against each in its own goroutine.
type fakeSpawner struct {
	mu      sync.Mutex
	nextPID int
	handles []*fakeHandle
	invs    []invocation.Invocation
	err     error
	onSpawn func(h *fakeHandle)
	prepare func(h *fakeHandle)
}

func (s *fakeSpawner) Spawn(inv invocation.Invocation) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invs = append(s.invs, inv)
	if s.err != nil {
		return nil, s.err
	}
	s.nextPID++
	h := newFakeHandle(1000 + s.nextPID)
	if s.prepare != nil {
		s.prepare(h)
	}
	s.handles = append(s.handles, h)
	if s.onSpawn != nil {
		go s.onSpawn(h)
	}
	return h, nil
}

func (s *fakeSpawner) handle(i int) *fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[i]
}

// exitAll releases every handle so no goroutine outlives the test.
func (s *fakeSpawner) exitAll() {
	s.mu.Lock()
	hs := append([]*fakeHandle(nil), s.handles...)
	s.mu.Unlock()
	for _, h := range hs {
		h.exit()
	}
}

func newTestSupervisor(t *testing.T, sp *fakeSpawner) *Supervisor {
	t.Helper()
	t.Cleanup(sp.exitAll)
	return New(Config{Spawner: sp, Logger: zerolog.Nop()})
}

var seleniumInv = invocation.Java("java", "/tmp/selenium-server-standalone-2.42.2.jar")

const (
	readyBanner   = "INFO - Started SocketListener on 0.0.0.0:4444"
	runningBanner = "Selenium is already running on port 4444. Or some other service is."
)
