package inference

import (
	"context"
	"fmt"
)

// snapshot is the unit carried on the handoff channel. A failed snapshot
// is the out-of-band sentinel the worker sends when generation errors;
// ordinary snapshots carry the full cleaned text decoded so far.
type snapshot struct {
	text   string
	failed bool
}

// worker runs one generation call on its own goroutine and bridges it to
// the streaming consumer through ch. It is the single producer: snapshots
// are sent strictly in token order, and ch is sized for one snapshot per
// step plus the failure sentinel, so sends never block generation.
type worker struct {
	ch   chan snapshot
	done chan struct{}
	err  error
}

func startWorker(ctx context.Context, eng Engine, inputs *PromptInputs, params SamplingParams) *worker {
	w := &worker{
		ch:   make(chan snapshot, params.MaxTokens+2),
		done: make(chan struct{}),
	}
	acc := NewTokenAccumulator(eng.Tokenizer(), inputs.PromptTokens(), func(text string) {
		w.ch <- snapshot{text: text}
	})

	go func() {
		defer close(w.done)
		defer func() {
			if rec := recover(); rec != nil {
				w.err = fmt.Errorf("panic during generation: %v", rec)
				w.ch <- snapshot{failed: true}
			}
		}()
		if _, err := eng.Generate(ctx, inputs, params, []StepObserver{acc}); err != nil {
			w.err = err
			w.ch <- snapshot{failed: true}
		}
	}()
	return w
}

// join blocks until the generation goroutine has fully exited. Sessions
// always join before teardown; generation is not preemptible mid-call.
func (w *worker) join() {
	<-w.done
}

func (w *worker) finished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
