package types

// AgentEventType defines the type of event emitted by the agent.
type AgentEventType string

const (
	EventTypeAPICallStart    AgentEventType = "api_call_start"    // EventTypeAPICallStart indicates the agent is consulting the model.
	EventTypeAPICallEnd      AgentEventType = "api_call_end"      // EventTypeAPICallEnd indicates a model call has completed.
	EventTypeToolCall        AgentEventType = "tool_call"         // EventTypeToolCall indicates the agent is calling a tool.
	EventTypeToolResult      AgentEventType = "tool_result"       // EventTypeToolResult indicates a successful tool call result.
	EventTypeToolResultError AgentEventType = "tool_result_error" // EventTypeToolResultError indicates a tool call resulted in an error.
	EventTypeNoToolCall      AgentEventType = "no_tool_call"      // EventTypeNoToolCall indicates the model answered without tools.
	EventTypeBrowserStep     AgentEventType = "browser_step"      // EventTypeBrowserStep indicates the browsing sub-agent finished one step.
	EventTypeTurnEnd         AgentEventType = "turn_end"          // EventTypeTurnEnd indicates the invocation has finished.
	EventTypeError           AgentEventType = "error"             // EventTypeError indicates an error occurred during agent processing.
)

// AgentEvent represents an event emitted by the agent during execution.
type AgentEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// ToolInput is the input being sent to the tool (for tool call events).
	ToolInput map[string]interface{}

	// ToolOutput is the result from the tool (for tool result events).
	ToolOutput interface{}

	// Error contains error information for error events.
	Error error

	// Content holds text content (final answers, step summaries).
	Content string

	// ToolName is the name of the tool being called (for tool events).
	ToolName string

	// Type indicates the kind of event.
	Type AgentEventType

	// Iteration is the loop iteration (or browser step) the event belongs to.
	Iteration int
}

// EventHandler receives agent events. Handlers run synchronously on the
// invocation goroutine and must not block.
type EventHandler func(*AgentEvent)

// NewAPICallStartEvent creates a model call start event.
func NewAPICallStartEvent(apiName string, iteration int) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeAPICallStart,
		Iteration: iteration,
		Metadata:  map[string]interface{}{"api_name": apiName},
	}
}

// NewAPICallEndEvent creates a model call end event.
func NewAPICallEndEvent(apiName string, iteration int) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeAPICallEnd,
		Iteration: iteration,
		Metadata:  map[string]interface{}{"api_name": apiName},
	}
}

// NewToolCallEvent creates a tool call event.
func NewToolCallEvent(iteration int, toolName string, toolInput map[string]interface{}) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeToolCall,
		Iteration: iteration,
		ToolName:  toolName,
		ToolInput: toolInput,
		Metadata:  make(map[string]interface{}),
	}
}

// NewToolResultEvent creates a tool result event.
func NewToolResultEvent(iteration int, toolName string, output interface{}) *AgentEvent {
	return &AgentEvent{
		Type:       EventTypeToolResult,
		Iteration:  iteration,
		ToolName:   toolName,
		ToolOutput: output,
		Metadata:   make(map[string]interface{}),
	}
}

// NewToolResultErrorEvent creates a tool result error event.
func NewToolResultErrorEvent(iteration int, toolName string, err error) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeToolResultError,
		Iteration: iteration,
		ToolName:  toolName,
		Error:     err,
		Metadata:  make(map[string]interface{}),
	}
}

// NewNoToolCallEvent creates an event for a final model answer.
func NewNoToolCallEvent(content string) *AgentEvent {
	return &AgentEvent{
		Type:     EventTypeNoToolCall,
		Content:  content,
		Metadata: make(map[string]interface{}),
	}
}

// NewBrowserStepEvent creates an event summarizing one sub-agent step.
func NewBrowserStepEvent(step int, action, summary string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeBrowserStep,
		Iteration: step,
		ToolName:  action,
		Content:   summary,
		Metadata:  make(map[string]interface{}),
	}
}

// NewTurnEndEvent creates a turn end event.
func NewTurnEndEvent(iterations int) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeTurnEnd,
		Iteration: iterations,
		Metadata:  make(map[string]interface{}),
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(err error) *AgentEvent {
	return &AgentEvent{
		Type:     EventTypeError,
		Error:    err,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds a metadata entry and returns the event.
func (e *AgentEvent) WithMetadata(key string, value interface{}) *AgentEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsToolEvent returns true if this is a tool-related event.
func (e *AgentEvent) IsToolEvent() bool {
	return e.Type == EventTypeToolCall ||
		e.Type == EventTypeToolResult ||
		e.Type == EventTypeToolResultError
}

// IsErrorEvent returns true if this is an error event.
func (e *AgentEvent) IsErrorEvent() bool {
	return e.Type == EventTypeError || e.Type == EventTypeToolResultError
}
