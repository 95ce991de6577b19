package types

import (
	"errors"
	"fmt"
)

var (
	// ErrOrphanedRequest means a tool request has no paired result.
	ErrOrphanedRequest = errors.New("tool request without result")
	// ErrUnpairedResult means a tool result does not answer a pending request.
	ErrUnpairedResult = errors.New("tool result without matching request")
)

// Conversation is the ordered, append-only message log of one invocation.
// It is owned by a single goroutine and is not safe for concurrent use.
type Conversation struct {
	messages []*Message
}

// NewConversation seeds a conversation with exactly one Human message.
func NewConversation(input string) *Conversation {
	return &Conversation{messages: []*Message{NewUserMessage(input)}}
}

// Append adds messages to the end of the conversation.
func (c *Conversation) Append(msgs ...*Message) {
	c.messages = append(c.messages, msgs...)
}

// Messages returns a copy of the message slice.
func (c *Conversation) Messages() []*Message {
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message, or nil when empty.
func (c *Conversation) Last() *Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Pending returns the requests of the latest tool-request message that have
// not been answered yet.
func (c *Conversation) Pending() []ToolRequest {
	for i := len(c.messages) - 1; i >= 0; i-- {
		msg := c.messages[i]
		if msg.Kind() != KindAIToolRequest {
			continue
		}
		answered := make(map[string]bool)
		for _, later := range c.messages[i+1:] {
			if later.Result != nil {
				answered[later.Result.RequestID] = true
			}
		}
		var pending []ToolRequest
		for _, req := range msg.ToolRequests {
			if !answered[req.ID] {
				pending = append(pending, req)
			}
		}
		return pending
	}
	return nil
}

// Validate checks the pairing invariant: every tool request is followed,
// before any other kind of message, by exactly one result per request id,
// and every result answers a request of the immediately preceding batch.
func (c *Conversation) Validate() error {
	var pending map[string]bool

	for i, msg := range c.messages {
		kind := msg.Kind()

		if kind == KindToolResult {
			if msg.Result == nil {
				return fmt.Errorf("message %d: %w: missing result payload", i, ErrUnpairedResult)
			}
			id := msg.Result.RequestID
			if !pending[id] {
				return fmt.Errorf("message %d: %w: %q", i, ErrUnpairedResult, id)
			}
			delete(pending, id)
			continue
		}

		if len(pending) > 0 {
			return fmt.Errorf("message %d: %w (%d unanswered)", i, ErrOrphanedRequest, len(pending))
		}

		if kind == KindAIToolRequest {
			pending = make(map[string]bool, len(msg.ToolRequests))
			for _, req := range msg.ToolRequests {
				if pending[req.ID] {
					return fmt.Errorf("message %d: duplicate tool request id %q", i, req.ID)
				}
				pending[req.ID] = true
			}
		}
	}

	if len(pending) > 0 {
		return fmt.Errorf("end of conversation: %w (%d unanswered)", ErrOrphanedRequest, len(pending))
	}
	return nil
}
