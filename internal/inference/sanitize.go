package inference

import (
	"regexp"
	"strings"
)

var (
	// <|im_end|>, <|endoftext|> and friends that leak into decoded text.
	controlTokenRE = regexp.MustCompile(`<\|.*?\|>`)

	// Decorative glyphs some checkpoints emit as generation artifacts.
	artifactGlyphRE = regexp.MustCompile(`[◆◇■□▲△▼▽★☆♦♢]`)

	// C0/C1 control characters except \n and \r.
	controlCharRE = regexp.MustCompile("[\x00-\x09\x0b\x0c\x0e-\x1f\x7f-\u009f]")
)

// Clean strips control-token markers, decorative artifacts, and control
// characters from decoded model output while preserving newlines. It is
// pure and idempotent, so applying it to both snapshots and deltas is safe.
func Clean(text string) string {
	text = controlTokenRE.ReplaceAllString(text, "")
	text = artifactGlyphRE.ReplaceAllString(text, "")
	return controlCharRE.ReplaceAllString(text, "")
}

// TrimIncomplete drops trailing replacement runes left behind when the
// current decode boundary falls inside a multi-byte sequence. The missing
// bytes arrive with the next token and the character decodes whole.
func TrimIncomplete(text string) string {
	return strings.TrimRight(text, "�")
}
