package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

// ExtractContentTool returns page content beyond what the observation shows.
type ExtractContentTool struct {
	session *Session
}

// NewExtractContentTool creates a new extract_content tool.
func NewExtractContentTool(session *Session) *ExtractContentTool {
	return &ExtractContentTool{session: session}
}

// Name returns the tool name.
func (t *ExtractContentTool) Name() string {
	return "extract_content"
}

// Description returns the tool description.
func (t *ExtractContentTool) Description() string {
	return "Extract content from the current page as plain text (default) or cleaned HTML. " +
		"Use a selector to read one section, such as a table of results, in full."
}

// Schema returns the tool's JSON schema.
func (t *ExtractContentTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"format": map[string]interface{}{
				"type":        "string",
				"enum":        []string{string(FormatText), string(FormatHTML)},
				"description": "Output format: 'text' (default) or 'html'",
			},
			"selector": tools.StringProperty("Optional CSS selector to extract content from specific element (e.g., 'article', '.main-content'); text format only"),
		},
		nil,
	)
}

// Execute extracts content from the page.
func (t *ExtractContentTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Format   string `json:"format"`
		Selector string `json:"selector"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	content, truncated, err := t.session.ExtractContent(ctx, ExtractOptions{
		Format:   ExtractFormat(input.Format),
		Selector: input.Selector,
	})
	if err != nil {
		return "", nil, err
	}

	if content == "" {
		content = "(no content)"
	}
	if truncated {
		content += "\n\n[Content truncated. Narrow the selector to read the rest.]"
	}
	return content, map[string]interface{}{"truncated": truncated}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ExtractContentTool) IsLoopBreaking() bool {
	return false
}
