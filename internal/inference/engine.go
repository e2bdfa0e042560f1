package inference

import (
	"context"
	"image"
)

// Message is a single chat turn after transport-level validation. Image
// content parts have already been decoded by the caller.
type Message struct {
	Role    string
	Content string
	Images  []image.Image
}

// Tokenizer is the decoding surface the streaming pipeline consumes. The
// concrete tokenizer lives inside the engine; only decode and the
// replacement-token id are needed here.
type Tokenizer interface {
	// Decode converts token ids to text. When skipSpecial is true,
	// control/special tokens known to the tokenizer are omitted.
	Decode(ids []int, skipSpecial bool) (string, error)

	// ReplacementID returns the id of the unknown/replacement token, or -1
	// if the vocabulary has none.
	ReplacementID() int
}

// StepObserver is invoked once per generation step with the full id
// sequence so far (prompt included) and the pre-sampling scores for the
// next token. Implementations must return the scores unmodified unless
// they intend to steer sampling; the streaming tap never does.
type StepObserver interface {
	Observe(fullIDs []int, scores []float32) []float32
}

// PromptInputs is a prepared prompt: the rendered template encoded to ids,
// plus any decoded images. IDs are owned by the engine for the duration of
// a Generate call and must not be mutated concurrently.
type PromptInputs struct {
	Text   string
	IDs    []int
	Images []image.Image
}

// PromptTokens reports the prompt boundary: generated output begins at
// this offset in the full id sequence.
func (p *PromptInputs) PromptTokens() int {
	return len(p.IDs)
}

// SamplingParams are the resolved per-request generation knobs.
type SamplingParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
	Seed        int64
}

// Engine is the generation capability behind the API. It is treated as a
// single shared, non-reentrant resource: callers serialize access (see
// api.EngineGate) and only one Generate may be in flight at a time.
type Engine interface {
	// Prepare renders the chat template over msgs and encodes the result,
	// folding image inputs in. The returned inputs fix the prompt boundary
	// for the whole generation.
	Prepare(ctx context.Context, msgs []Message) (*PromptInputs, error)

	// Generate runs the model to completion and returns the full output id
	// sequence, prompt ids included. Observers are called once per produced
	// token from the generation goroutine.
	Generate(ctx context.Context, inputs *PromptInputs, params SamplingParams, observers []StepObserver) ([]int, error)

	Tokenizer() Tokenizer
	ModelID() string
	Device() string
	Close() error
}
