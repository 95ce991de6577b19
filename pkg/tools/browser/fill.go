package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

// FillTool types a value into a form field.
type FillTool struct {
	session *Session
}

// NewFillTool creates a new fill tool.
func NewFillTool(session *Session) *FillTool {
	return &FillTool{session: session}
}

// Name returns the tool name.
func (t *FillTool) Name() string {
	return "fill"
}

// Description returns the tool description.
func (t *FillTool) Description() string {
	return "Replace the value of an input, textarea, or contenteditable element matching a CSS selector."
}

// Schema returns the tool's JSON schema.
func (t *FillTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty("Selector of the field, e.g. 'input[name=email]'"),
			"value":    tools.StringProperty("Text to enter"),
		},
		[]string{"selector", "value"},
	)
}

// Execute fills the field. The value is left out of the result so that
// secrets typed into forms are not echoed back.
func (t *FillTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Selector string `json:"selector"`
		Value    string `json:"value"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if err := t.session.Fill(ctx, input.Selector, input.Value); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Filled %s (%d characters)", input.Selector, len([]rune(input.Value))), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *FillTool) IsLoopBreaking() bool {
	return false
}
