package workflow

import "sync"

// FailureSignal is the process-wide "workflow failed" event. It fires at most
// once; subscribers run synchronously in registration order.
type FailureSignal struct {
	mu   sync.Mutex
	subs []func(error)
	err  error
}

// NewFailureSignal returns an unraised signal.
func NewFailureSignal() *FailureSignal { return &FailureSignal{} }

// Subscribe registers fn. When the signal has already fired fn runs immediately.
func (f *FailureSignal) Subscribe(fn func(error)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	err := f.err
	if err == nil {
		f.subs = append(f.subs, fn)
	}
	f.mu.Unlock()
	if err != nil {
		fn(err)
	}
}

// Raise fires the signal with err and reports whether this call fired it.
// Later raises and nil errors are ignored.
func (f *FailureSignal) Raise(err error) bool {
	if err == nil {
		return false
	}
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return false
	}
	f.err = err
	subs := append([]func(error){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(err)
	}
	return true
}

// Err returns the error the signal fired with, or nil.
func (f *FailureSignal) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
