package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

// ClickTool clicks an element on the page.
type ClickTool struct {
	session *Session
}

// NewClickTool creates a new click tool.
func NewClickTool(session *Session) *ClickTool {
	return &ClickTool{session: session}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "click"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return "Click the first element matching a CSS selector. Use ids, names, or data-testid attributes from the observed HTML, " +
		"or playwright text selectors such as text=\"Sign in\"."
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty("Selector of the element to click, e.g. '#submit' or 'button[type=submit]'"),
		},
		[]string{"selector"},
	)
}

// Execute clicks the element.
func (t *ClickTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Selector string `json:"selector"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if err := t.session.Click(ctx, input.Selector); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Clicked %s; now at %s", input.Selector, t.session.URL()), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ClickTool) IsLoopBreaking() bool {
	return false
}
