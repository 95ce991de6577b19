// Package tools defines the tool contract shared by the top-level agent and
// the browsing sub-agent, plus a registry for dispatching tool requests.
package tools

import (
	"context"
	"encoding/json"

	"github.com/mpulaparthi/web-agent/pkg/types"
)

// Tool represents a capability the model can invoke through native tool
// calling. Arguments arrive as the JSON object the model produced.
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "browse_web")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given JSON arguments and returns a
	// result string. Metadata is optional and can be nil; it is attached to
	// tool result events.
	Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error)

	// IsLoopBreaking indicates whether this tool ends the loop that called
	// it (the sub-agent's done action, for example).
	IsLoopBreaking() bool
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty returns a JSON schema property of type string.
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// Definition returns the schema sent to the model for tool.
func Definition(tool Tool) types.ToolSchema {
	return types.ToolSchema{
		Name:        tool.Name(),
		Description: tool.Description(),
		Parameters:  tool.Schema(),
	}
}
