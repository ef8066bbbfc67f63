package supervisor

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSweep_SignalsEveryEntryDespiteFailures(t *testing.T) {
	sp := &fakeSpawner{onSpawn: func(h *fakeHandle) { h.stdout(readyBanner) }}
	s := newTestSupervisor(t, sp)
	hook := NewCleanupHook(s, zerolog.Nop())
	pub := NewMemoryPublisher()
	s.Subscribe(pub)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Start(context.Background(), name, seleniumInv, fastOptions()))
	}
	// "b" refuses the signal; "a" and "c" must still receive theirs.
	b := sp.handle(1)
	b.mu.Lock()
	b.signalErr = syscall.EPERM
	b.mu.Unlock()

	errs := hook.Sweep(errors.New("task failed"))
	require.Len(t, errs, 1)
	require.True(t, IsTerminationFailed(errs[0]))
	var tf *TerminationFailedError
	require.ErrorAs(t, errs[0], &tf)
	require.Equal(t, "b", tf.Target)
	for i := 0; i < 3; i++ {
		require.Equal(t, 1, sp.handle(i).signalCount(), "handle %d", i)
	}
	require.Equal(t, 1, pub.Count(EventCleanup))
}

func TestSweep_EmptyTableIsNoop(t *testing.T) {
	s := newTestSupervisor(t, &fakeSpawner{})
	hook := NewCleanupHook(s, zerolog.Nop())
	require.Nil(t, hook.Sweep(errors.New("boom")))
	require.Nil(t, hook.Sweep(nil))
}

func TestSweep_AlreadyExitedHandle(t *testing.T) {
	sp := &fakeSpawner{onSpawn: func(h *fakeHandle) { h.stdout(readyBanner) }}
	s := newTestSupervisor(t, sp)
	hook := NewCleanupHook(s, zerolog.Nop())
	require.NoError(t, s.Start(context.Background(), "hub", seleniumInv, fastOptions()))

	// Capture the entry, then let the process die before the sweep.
	entries := s.snapshot()
	require.Len(t, entries, 1)
	sp.handle(0).exit()

	err := s.terminate(entries[0], sourceSweep)
	require.ErrorIs(t, err, os.ErrProcessDone)
	// Whether or not the exit has been pruned yet, the sweep completes cleanly.
	errs := hook.Sweep(errors.New("late failure"))
	for _, e := range errs {
		require.ErrorIs(t, e, os.ErrProcessDone)
	}
}

func TestCleanupHook_OnFailureSweeps(t *testing.T) {
	sp := &fakeSpawner{onSpawn: func(h *fakeHandle) { h.stdout(readyBanner) }}
	s := newTestSupervisor(t, sp)
	hook := NewCleanupHook(s, zerolog.Nop())
	require.NoError(t, s.Start(context.Background(), "hub", seleniumInv, fastOptions()))

	hook.OnFailure(errors.New("boom"))
	require.Equal(t, 1, sp.handle(0).signalCount())
}
