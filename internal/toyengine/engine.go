// Package toyengine is a deterministic, dependency-free implementation of
// the inference.Engine contract. It exists so the server and its tests can
// exercise the full request/streaming pipeline without model weights:
// tokens are rune codepoints and the reply is a pure function of the
// prompt.
package toyengine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openvlm/lens/internal/inference"
)

const (
	// Ids at or above specialBase are control tokens in the toy vocabulary.
	specialBase = 0x110000

	idIMStart = specialBase + iota
	idIMEnd
	idEndOfText
)

type tokenizer struct{}

func (tokenizer) Decode(ids []int, skipSpecial bool) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		if id >= specialBase {
			if skipSpecial {
				continue
			}
			sb.WriteString(specialString(id))
			continue
		}
		sb.WriteRune(rune(id))
	}
	return sb.String(), nil
}

func (tokenizer) ReplacementID() int { return specialBase }

func specialString(id int) string {
	switch id {
	case idIMStart:
		return "<|im_start|>"
	case idIMEnd:
		return "<|im_end|>"
	case idEndOfText:
		return "<|endoftext|>"
	}
	return "<|unk|>"
}

// Engine generates a canned echo of the last user turn, one rune token
// per step. StepDelay throttles steps to make streaming observable from
// a terminal; leave it zero in tests.
type Engine struct {
	Model     string
	StepDelay time.Duration
}

func New(model string) *Engine {
	if model == "" {
		model = "lens-toy"
	}
	return &Engine{Model: model}
}

func (e *Engine) Prepare(ctx context.Context, msgs []inference.Message) (*inference.PromptInputs, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages to render")
	}

	inputs := &inference.PromptInputs{}
	var sb strings.Builder
	for _, m := range msgs {
		inputs.IDs = append(inputs.IDs, idIMStart)
		appendRunes(inputs, m.Role+"\n")
		appendRunes(inputs, m.Content)
		for _, img := range m.Images {
			appendRunes(inputs, "\n[image]")
			inputs.Images = append(inputs.Images, img)
		}
		inputs.IDs = append(inputs.IDs, idIMEnd)
		appendRunes(inputs, "\n")

		sb.WriteString("<|im_start|>")
		sb.WriteString(m.Role)
		sb.WriteString("\n")
		sb.WriteString(m.Content)
		sb.WriteString("<|im_end|>\n")
	}
	inputs.IDs = append(inputs.IDs, idIMStart)
	appendRunes(inputs, "assistant\n")
	sb.WriteString("<|im_start|>assistant\n")
	inputs.Text = sb.String()
	return inputs, nil
}

func (e *Engine) Generate(ctx context.Context, inputs *inference.PromptInputs, params inference.SamplingParams, observers []inference.StepObserver) ([]int, error) {
	reply := replyFor(inputs)
	ids := append([]int(nil), inputs.IDs...)

	steps := 0
	for _, r := range reply {
		if params.MaxTokens > 0 && steps >= params.MaxTokens {
			break
		}
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		if e.StepDelay > 0 {
			time.Sleep(e.StepDelay)
		}
		ids = append(ids, int(r))
		for _, o := range observers {
			o.Observe(ids, nil)
		}
		steps++
	}

	ids = append(ids, idEndOfText)
	for _, o := range observers {
		o.Observe(ids, nil)
	}
	return ids, nil
}

func (e *Engine) Tokenizer() inference.Tokenizer { return tokenizer{} }

func (e *Engine) ModelID() string {
	if e.Model == "" {
		return "lens-toy"
	}
	return e.Model
}

func (e *Engine) Device() string { return "cpu" }
func (e *Engine) Close() error   { return nil }

func appendRunes(inputs *inference.PromptInputs, s string) {
	for _, r := range s {
		inputs.IDs = append(inputs.IDs, int(r))
	}
}

// replyFor derives the deterministic reply from the rendered prompt: the
// text of the last user turn, echoed back.
func replyFor(inputs *inference.PromptInputs) string {
	const userTag = "<|im_start|>user\n"
	text := inputs.Text
	idx := strings.LastIndex(text, userTag)
	if idx < 0 {
		return "Hello."
	}
	rest := text[idx+len(userTag):]
	if end := strings.Index(rest, "<|im_end|>"); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "Hello."
	}
	return rest
}
