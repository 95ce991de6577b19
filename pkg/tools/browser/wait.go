package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

// WaitTool waits for an element to reach a state.
type WaitTool struct {
	session *Session
}

// NewWaitTool creates a new wait_for tool.
func NewWaitTool(session *Session) *WaitTool {
	return &WaitTool{session: session}
}

// Name returns the tool name.
func (t *WaitTool) Name() string {
	return "wait_for"
}

// Description returns the tool description.
func (t *WaitTool) Description() string {
	return "Wait for an element to appear, disappear, or become visible. Useful after logins and for content loaded by scripts."
}

// Schema returns the tool's JSON schema.
func (t *WaitTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty("CSS selector for the element to wait for (e.g., '.loading-spinner', '#content')"),
			"state": map[string]interface{}{
				"type":        "string",
				"enum":        []string{string(StateVisible), string(StateHidden), string(StateAttached), string(StateDetached)},
				"description": "State to wait for: 'attached' (in DOM), 'detached' (removed from DOM), 'visible' (default), or 'hidden'",
			},
		},
		[]string{"selector"},
	)
}

// Execute waits for the element.
func (t *WaitTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Selector string `json:"selector"`
		State    string `json:"state"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	state := WaitState(input.State)
	if state == "" {
		state = StateVisible
	}
	if err := t.session.Wait(ctx, input.Selector, state); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s is %s", input.Selector, state), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *WaitTool) IsLoopBreaking() bool {
	return false
}
