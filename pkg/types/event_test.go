package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstructors(t *testing.T) {
	call := NewToolCallEvent(2, "browse_web", map[string]interface{}{"task": "x"})
	assert.Equal(t, EventTypeToolCall, call.Type)
	assert.Equal(t, 2, call.Iteration)
	assert.True(t, call.IsToolEvent())
	assert.False(t, call.IsErrorEvent())

	failed := NewToolResultErrorEvent(2, "browse_web", errors.New("boom"))
	assert.Equal(t, 2, failed.Iteration)
	assert.True(t, failed.IsToolEvent())
	assert.True(t, failed.IsErrorEvent())

	step := NewBrowserStepEvent(3, "click", "clicked #login")
	assert.Equal(t, 3, step.Iteration)
	assert.Equal(t, "click", step.ToolName)
	assert.False(t, step.IsToolEvent())
}

func TestAgentEvent_WithMetadata(t *testing.T) {
	ev := (&AgentEvent{Type: EventTypeTurnEnd}).WithMetadata("iterations", 2)
	assert.Equal(t, 2, ev.Metadata["iterations"])
}
