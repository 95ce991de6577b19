package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThinkingParserSplitsAcrossChunks(t *testing.T) {
	p := NewThinkingParser()

	chunks := []string{"<think", "ing>plan the ", "search</thin", "king>Answer: 42"}

	var thinking, message string
	for _, chunk := range chunks {
		th, msg := p.Parse(chunk)
		thinking += th
		message += msg
	}
	th, msg := p.Flush()
	thinking += th
	message += msg

	assert.Equal(t, "plan the search", thinking)
	assert.Equal(t, "Answer: 42", message)
	assert.False(t, p.IsInThinking())
}

func TestThinkingParserComparisonOperators(t *testing.T) {
	p := NewThinkingParser()

	thinking, message := p.Parse("<thinking>if x>3 and i<10</thinking>done")
	th, msg := p.Flush()

	assert.Equal(t, "if x>3 and i<10", thinking+th)
	assert.Equal(t, "done", message+msg)
}

func TestThinkingParserKeepsOtherTags(t *testing.T) {
	p := NewThinkingParser()

	_, message := p.Parse("<b>bold</b>")
	assert.Equal(t, "<b>bold</b>", message)
}

func TestStripThinking(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no tags", "plain answer", "plain answer"},
		{"leading block", "<thinking>reasoning</thinking>\n\nThe price is $10.", "The price is $10."},
		{"two blocks", "<thinking>a</thinking>one <thinking>b</thinking>two", "one two"},
		{"unterminated", "answer<thinking>never closed", "answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripThinking(tt.input))
		})
	}
}
