// Package tokenizer counts and truncates text by model tokens.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the cl100k_base encoding (GPT-4 family). Claude token
// counts differ slightly; budgets here are approximate.
const encodingName = "cl100k_base"

// charsPerToken is the fallback estimate when no encoder is available.
const charsPerToken = 4

// Tokenizer counts tokens with tiktoken, falling back to a character
// estimate when the encoding cannot be loaded.
type Tokenizer struct {
	encoder *tiktoken.Tiktoken
}

var (
	shared     *Tokenizer
	sharedOnce sync.Once
)

// New returns the process-wide tokenizer. Encoder initialization happens
// once; failure yields an estimating tokenizer.
func New() *Tokenizer {
	sharedOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			shared = &Tokenizer{}
			return
		}
		shared = &Tokenizer{encoder: enc}
	})
	return shared
}

// Estimating reports whether counts are character-based estimates.
func (t *Tokenizer) Estimating() bool {
	return t == nil || t.encoder == nil
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if t.Estimating() {
		return (len(text) + charsPerToken - 1) / charsPerToken
	}
	return len(t.encoder.Encode(text, nil, nil))
}

// Truncate returns text cut to at most maxTokens tokens and whether it was
// cut. maxTokens <= 0 disables truncation.
func (t *Tokenizer) Truncate(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}

	if t.Estimating() {
		limit := maxTokens * charsPerToken
		if len(text) <= limit {
			return text, false
		}
		// Back off to a rune boundary
		for limit > 0 && !runeStart(text[limit]) {
			limit--
		}
		return text[:limit], true
	}

	tokens := t.encoder.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, false
	}
	return t.encoder.Decode(tokens[:maxTokens]), true
}

func runeStart(b byte) bool {
	return b&0xC0 != 0x80
}
