package inference

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// pollInterval bounds how long the consumer waits on the handoff channel
// before re-checking worker liveness. It is the session's only suspension
// point.
const pollInterval = 100 * time.Millisecond

// StreamSession is the lifetime scope of one streaming generation: it
// owns the handoff channel, the worker goroutine, and the last-emitted
// text used for suffix-delta computation. One session supports exactly
// one Run.
type StreamSession struct {
	w           *worker
	lastEmitted string
}

// StartStream launches generation for inputs on a dedicated goroutine and
// returns the session bridging it to the caller.
func StartStream(ctx context.Context, eng Engine, inputs *PromptInputs, params SamplingParams) *StreamSession {
	return &StreamSession{w: startWorker(ctx, eng, inputs, params)}
}

// Run drains the handoff channel and calls emit for each new suffix delta,
// in generation order. It returns once the worker has finished and the
// channel is drained, the failure sentinel is observed, or ctx is
// cancelled; in every case the worker is joined before Run returns, and
// the caller can then frame the terminal chunk knowing no further deltas
// will follow.
func (s *StreamSession) Run(ctx context.Context, emit func(delta string) error) {
	defer s.w.join()

	for {
		select {
		case snap := <-s.w.ch:
			if snap.failed {
				return
			}
			if !s.advance(snap.text, emit) {
				return
			}
		case <-time.After(pollInterval):
			if s.w.finished() && len(s.w.ch) == 0 {
				return
			}
		case <-ctx.Done():
			// Client went away: stop polling. The deferred join still
			// waits out the worker so the engine is quiescent before the
			// session is torn down.
			return
		}
	}
}

// advance computes the delta of text beyond what was already emitted and
// forwards it. A delta that is empty, invalid, or ends mid-codepoint is
// withheld without moving lastEmitted, so it merges into the next one.
// Returns false when emit fails, ending the session.
func (s *StreamSession) advance(text string, emit func(delta string) error) bool {
	if len(text) <= len(s.lastEmitted) {
		return true
	}
	delta := Clean(text[len(s.lastEmitted):])
	if delta == "" {
		return true
	}
	if !utf8.ValidString(delta) || strings.HasSuffix(delta, "�") {
		return true
	}
	if err := emit(delta); err != nil {
		return false
	}
	s.lastEmitted = text
	return true
}

// Text returns the full emitted text so far (the concatenation of every
// delta passed to emit).
func (s *StreamSession) Text() string {
	return s.lastEmitted
}

// Err reports the worker's failure after Run has returned, or nil for a
// clean completion.
func (s *StreamSession) Err() error {
	return s.w.err
}
