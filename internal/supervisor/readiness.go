package supervisor

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"regexp"
	"sync"

	"github.com/rs/zerolog"
)

// Verdict is a ReadinessRule's classification of one output line.
type Verdict int

const (
	Pending Verdict = iota
	Ready
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// ReadinessRule decides from a single line of process output whether startup
// succeeded, failed, or is still pending. Implementations must be safe for
// concurrent use: stdout and stderr are scanned in parallel.
type ReadinessRule interface {
	Match(line string) Verdict
}

// PatternRule matches Ready first, then Failed. A nil pattern never matches.
type PatternRule struct {
	Ready  *regexp.Regexp
	Failed *regexp.Regexp
}

func (r PatternRule) Match(line string) Verdict {
	if r.Ready != nil && r.Ready.MatchString(line) {
		return Ready
	}
	if r.Failed != nil && r.Failed.MatchString(line) {
		return Failed
	}
	return Pending
}

// Selenium standalone server banners.
const (
	SeleniumReadyPattern   = `Started SocketListener on .+:\d+`
	SeleniumFailurePattern = `Selenium is already running on port \d+`
)

var (
	seleniumReady   = regexp.MustCompile(SeleniumReadyPattern)
	seleniumRunning = regexp.MustCompile(SeleniumFailurePattern)
)

// SeleniumRule recognizes the Selenium standalone server banners.
func SeleniumRule() ReadinessRule {
	return PatternRule{Ready: seleniumReady, Failed: seleniumRunning}
}

// outcomeKind enumerates how a start attempt resolved.
type outcomeKind int

const (
	outcomeReady outcomeKind = iota + 1
	outcomeFailed
	outcomeTimeout
	outcomeCanceled
)

type outcome struct {
	kind   outcomeKind
	reason string
	line   string
}

// resolution is the shared resolved flag. The first resolve call wins; the
// rest return false and leave the outcome untouched.
type resolution struct {
	once sync.Once
	done chan struct{}
	out  outcome
}

func newResolution() *resolution { return &resolution{done: make(chan struct{})} }

func (r *resolution) resolve(o outcome) bool {
	won := false
	r.once.Do(func() {
		r.out = o
		won = true
		close(r.done)
	})
	return won
}

func (r *resolution) Done() <-chan struct{} { return r.done }

func (r *resolution) resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// outcome blocks until resolved.
func (r *resolution) outcome() outcome {
	<-r.done
	return r.out
}

const (
	readBufferBytes = 64 * 1024
	// maxLineBytes caps the part of a line that is matched and logged.
	maxLineBytes = 64 * 1024
)

// detector consumes a process's output line by line and resolves res.
type detector struct {
	target       string
	rule         ReadinessRule
	strictStderr bool
	res          *resolution
	log          zerolog.Logger
}

// attach starts one scanner per stream. Streams are drained to EOF even after
// resolution so the child never blocks on a full pipe. If every stream closes
// before a verdict the start resolves as failed.
func (d *detector) attach(h Handle) {
	var wg sync.WaitGroup
	streams := []struct {
		name   string
		r      io.Reader
		stderr bool
	}{
		{"stdout", h.Stdout(), false},
		{"stderr", h.Stderr(), true},
	}
	for _, s := range streams {
		if s.r == nil {
			continue
		}
		wg.Add(1)
		go func(name string, r io.Reader, isErr bool) {
			defer wg.Done()
			d.consume(name, r, isErr)
		}(s.name, s.r, s.stderr)
	}
	go func() {
		wg.Wait()
		d.res.resolve(outcome{kind: outcomeFailed, reason: "process output closed before the server reported readiness"})
	}()
}

// consume reads r line by line until EOF. Lines longer than maxLineBytes are
// cut for matching and logging; the rest of such a line is discarded.
func (d *detector) consume(stream string, r io.Reader, isErr bool) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	br := bufio.NewReaderSize(r, readBufferBytes)
	line := make([]byte, 0, readBufferBytes)
	truncated := false
	for {
		frag, err := br.ReadSlice('\n')
		if room := maxLineBytes - len(line); len(frag) > room {
			line = append(line, frag[:room]...)
			truncated = true
		} else {
			line = append(line, frag...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == nil || len(line) > 0 {
			if truncated {
				d.log.Debug().Str("target", d.target).Str("stream", stream).Int("kept_bytes", maxLineBytes).Msg("long output line truncated")
			}
			d.observe(stream, string(bytes.TrimRight(line, "\r\n")), isErr)
			line, truncated = line[:0], false
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
				d.log.Debug().Str("target", d.target).Str("stream", stream).Err(err).Msg("output read stopped")
			}
			return
		}
	}
}

// observe classifies one line; it reports whether this line resolved the start.
func (d *detector) observe(stream, line string, isErr bool) bool {
	if d.res.resolved() {
		d.log.Debug().Str("target", d.target).Str("stream", stream).Msg(line)
		return false
	}
	d.log.Info().Str("target", d.target).Str("stream", stream).Msg(line)
	switch d.rule.Match(line) {
	case Ready:
		return d.res.resolve(outcome{kind: outcomeReady, line: line})
	case Failed:
		return d.res.resolve(outcome{kind: outcomeFailed, reason: "server reported it is already running", line: line})
	}
	if isErr && d.strictStderr {
		return d.res.resolve(outcome{kind: outcomeFailed, reason: "output on stderr", line: line})
	}
	return false
}
