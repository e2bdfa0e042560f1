package inference

// TokenAccumulator is a passive per-step tap on the generation loop. It
// tracks which ids are new since the last step, decodes everything past
// the prompt boundary, cleans the result, and hands the full snapshot to
// emit. Snapshots replace rather than append; the consumer computes
// suffix deltas itself.
//
// Observe runs on the generation goroutine, so emit must never block it.
type TokenAccumulator struct {
	tok            Tokenizer
	promptBoundary int
	ids            []int
	lastObserved   int
	emit           func(text string)
}

func NewTokenAccumulator(tok Tokenizer, promptBoundary int, emit func(text string)) *TokenAccumulator {
	return &TokenAccumulator{
		tok:            tok,
		promptBoundary: promptBoundary,
		emit:           emit,
	}
}

// Observe implements StepObserver. Scores pass through untouched:
// correctness of generation must never depend on this tap.
func (a *TokenAccumulator) Observe(fullIDs []int, scores []float32) []float32 {
	if len(fullIDs) <= a.lastObserved {
		return scores
	}
	a.ids = append(a.ids, fullIDs[a.lastObserved:]...)
	a.lastObserved = len(fullIDs)

	text := ""
	if len(a.ids) > a.promptBoundary {
		decoded, err := a.tok.Decode(a.ids[a.promptBoundary:], true)
		if err == nil {
			text = TrimIncomplete(Clean(decoded))
		}
	}
	a.emit(text)
	return scores
}
