// Package types defines the conversation data model shared by the agent loop,
// the model providers, and the browsing sub-agent.
package types

import "encoding/json"

// MessageRole identifies the author of a message on the model wire.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// MessageKind is the tagged variant a Message represents.
type MessageKind int

const (
	// KindSystem is the system prompt. It is never stored in a Conversation.
	KindSystem MessageKind = iota
	// KindHuman is natural-language input from the caller.
	KindHuman
	// KindAIPlain is a model response without tool requests.
	KindAIPlain
	// KindAIToolRequest is a model response carrying one or more tool requests.
	KindAIToolRequest
	// KindToolResult answers exactly one prior tool request.
	KindToolResult
)

func (k MessageKind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindHuman:
		return "human"
	case KindAIPlain:
		return "ai"
	case KindAIToolRequest:
		return "ai_tool_request"
	case KindToolResult:
		return "tool_result"
	default:
		return "unknown"
	}
}

// ToolRequest is a structured request from the model naming a tool and
// supplying its JSON arguments.
type ToolRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the paired response to a ToolRequest. Exactly one of Output
// and Error is meaningful; a non-empty Error marks the result as failed.
type ToolResult struct {
	RequestID string `json:"request_id"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

// IsError reports whether the result carries an error description.
func (r *ToolResult) IsError() bool {
	return r.Error != ""
}

// Text returns the payload that is shown to the model.
func (r *ToolResult) Text() string {
	if r.IsError() {
		return "Error: " + r.Error
	}
	return r.Output
}

// Message is a single entry in a conversation.
type Message struct {
	Role         MessageRole   `json:"role"`
	Content      string        `json:"content,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
	Result       *ToolResult   `json:"result,omitempty"`
}

// NewMessage creates a plain message with the given role.
func NewMessage(role MessageRole, content string) *Message {
	return &Message{Role: role, Content: content}
}

// NewSystemMessage creates a system prompt message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a Human message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a plain model response.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewToolRequestMessage creates a model response carrying tool requests.
// Content holds any text the model produced alongside the requests.
func NewToolRequestMessage(content string, requests ...ToolRequest) *Message {
	return &Message{
		Role:         RoleAssistant,
		Content:      content,
		ToolRequests: requests,
	}
}

// NewToolResultMessage wraps a successful tool output.
func NewToolResultMessage(requestID, output string) *Message {
	return &Message{
		Role:   RoleTool,
		Result: &ToolResult{RequestID: requestID, Output: output},
	}
}

// NewToolErrorMessage wraps a failed tool execution.
func NewToolErrorMessage(requestID string, err error) *Message {
	return &Message{
		Role:   RoleTool,
		Result: &ToolResult{RequestID: requestID, Error: err.Error()},
	}
}

// Kind returns the tagged variant of the message.
func (m *Message) Kind() MessageKind {
	switch m.Role {
	case RoleSystem:
		return KindSystem
	case RoleUser:
		return KindHuman
	case RoleTool:
		return KindToolResult
	default:
		if len(m.ToolRequests) > 0 {
			return KindAIToolRequest
		}
		return KindAIPlain
	}
}

// HasToolRequests reports whether the message asks for tool execution.
func (m *Message) HasToolRequests() bool {
	return m.Kind() == KindAIToolRequest
}
