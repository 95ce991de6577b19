package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

// NavigateTool loads a URL in the task's page.
type NavigateTool struct {
	session *Session
}

// NewNavigateTool creates a new navigate tool.
func NewNavigateTool(session *Session) *NavigateTool {
	return &NavigateTool{session: session}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Navigate the browser to a URL. The page is loaded before the next observation."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": tools.StringProperty("URL to open, e.g. https://example.com"),
		},
		[]string{"url"},
	)
}

// Execute navigates to the requested URL.
func (t *NavigateTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if err := t.session.Navigate(ctx, input.URL); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Navigated to %s", t.session.URL()), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *NavigateTool) IsLoopBreaking() bool {
	return false
}

// GoBackTool returns to the previous page.
type GoBackTool struct {
	session *Session
}

// NewGoBackTool creates a new go_back tool.
func NewGoBackTool(session *Session) *GoBackTool {
	return &GoBackTool{session: session}
}

// Name returns the tool name.
func (t *GoBackTool) Name() string {
	return "go_back"
}

// Description returns the tool description.
func (t *GoBackTool) Description() string {
	return "Go back to the previous page in the browser history."
}

// Schema returns the tool's JSON schema.
func (t *GoBackTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute navigates back.
func (t *GoBackTool) Execute(ctx context.Context, _ json.RawMessage) (string, map[string]interface{}, error) {
	if err := t.session.GoBack(ctx); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Went back to %s", t.session.URL()), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *GoBackTool) IsLoopBreaking() bool {
	return false
}
