package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

const taskCompletionToolName = "done"

// TaskCompletionTool is a loop-breaking tool that lets the browsing
// sub-agent report that its task is finished, along with the extracted
// result.
type TaskCompletionTool struct{}

// NewTaskCompletionTool creates a new task completion tool
func NewTaskCompletionTool() *TaskCompletionTool {
	return &TaskCompletionTool{}
}

// Name returns the tool's identifier
func (t *TaskCompletionTool) Name() string {
	return taskCompletionToolName
}

// Description returns a description of what this tool does
func (t *TaskCompletionTool) Description() string {
	return "Signal that the browsing task is complete and report the final result. " +
		"Include every piece of information the task asked for; the result is returned verbatim."
}

// Schema returns the JSON schema for the tool's arguments
func (t *TaskCompletionTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"result": StringProperty("The final result of the task, complete and self-contained."),
		},
		[]string{"result"},
	)
}

// Execute runs the tool and returns the result
func (t *TaskCompletionTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var args struct {
		Result string `json:"result"`
	}

	if err := DecodeArguments(arguments, &args); err != nil {
		return "", nil, fmt.Errorf("invalid arguments for %s: %w", taskCompletionToolName, err)
	}

	if args.Result == "" {
		return "", nil, fmt.Errorf("result cannot be empty")
	}

	return args.Result, nil, nil
}

// IsLoopBreaking returns true because this tool terminates the sub-agent loop
func (t *TaskCompletionTool) IsLoopBreaking() bool {
	return true
}
