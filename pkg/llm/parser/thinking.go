// Package parser separates <thinking> blocks from model output.
package parser

import (
	"strings"
)

const (
	openTag  = "<thinking>"
	closeTag = "</thinking>"
)

// ThinkingParser splits content into thinking and message text. It keeps
// state across calls so tags split between chunks are still recognized.
type ThinkingParser struct {
	thinking   strings.Builder
	message    strings.Builder
	tagBuffer  strings.Builder // potential tag content between < and >
	inThinking bool
	inTag      bool // saw '<' but not yet '>'
}

// NewThinkingParser creates a new thinking parser.
func NewThinkingParser() *ThinkingParser {
	return &ThinkingParser{}
}

// Parse processes a content chunk and returns the thinking and message text
// it completed. Text inside an unfinished tag is held until the tag closes
// or Flush is called.
func (p *ThinkingParser) Parse(content string) (thinking, message string) {
	for _, ch := range content {
		if ch == '<' {
			// A second '<' means the buffered one was not a tag
			if p.inTag {
				p.emit(p.tagBuffer.String())
			}
			p.inTag = true
			p.tagBuffer.Reset()
			p.tagBuffer.WriteRune(ch)
			continue
		}

		if ch == '>' && p.inTag {
			p.tagBuffer.WriteRune(ch)
			tag := p.tagBuffer.String()
			p.tagBuffer.Reset()
			p.inTag = false

			switch tag {
			case openTag:
				p.inThinking = true
			case closeTag:
				p.inThinking = false
			default:
				p.emit(tag)
			}
			continue
		}

		if p.inTag {
			p.tagBuffer.WriteRune(ch)
		} else {
			p.emit(string(ch))
		}
	}

	return p.drain()
}

// Flush returns buffered text, including an incomplete tag, as content of
// the current mode.
func (p *ThinkingParser) Flush() (thinking, message string) {
	if p.inTag {
		p.emit(p.tagBuffer.String())
		p.tagBuffer.Reset()
		p.inTag = false
	}
	return p.drain()
}

// IsInThinking returns true if currently parsing thinking content.
func (p *ThinkingParser) IsInThinking() bool {
	return p.inThinking
}

// Reset resets the parser state.
func (p *ThinkingParser) Reset() {
	p.thinking.Reset()
	p.message.Reset()
	p.tagBuffer.Reset()
	p.inThinking = false
	p.inTag = false
}

func (p *ThinkingParser) emit(text string) {
	if p.inThinking {
		p.thinking.WriteString(text)
	} else {
		p.message.WriteString(text)
	}
}

func (p *ThinkingParser) drain() (thinking, message string) {
	thinking, message = p.thinking.String(), p.message.String()
	p.thinking.Reset()
	p.message.Reset()
	return thinking, message
}

// StripThinking removes <thinking> blocks from a complete response and trims
// the surrounding whitespace. An unterminated block swallows the rest of the
// text.
func StripThinking(content string) string {
	if !strings.Contains(content, openTag) {
		return content
	}
	p := NewThinkingParser()
	_, message := p.Parse(content)
	_, rest := p.Flush()
	return strings.TrimSpace(message + rest)
}
