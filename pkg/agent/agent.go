// Package agent implements the top-level control loop: it alternates
// between consulting the model (Deciding) and executing the tools the model
// asked for (Acting) until the model answers without tool requests.
//
// Typical usage:
//
//	ag := agent.NewDefaultAgent(provider,
//	    agent.WithTools(browseTool),
//	    agent.WithMaxIterations(10),
//	)
//	result, err := ag.Run(ctx, "What is the title of example.com?")
package agent

import (
	"context"

	"github.com/mpulaparthi/web-agent/pkg/types"
)

// Agent runs one invocation from a single human message to a final answer.
type Agent interface {
	// Run seeds a fresh conversation with input and drives the loop to
	// completion. The conversation is owned by the call and returned in the
	// Result for inspection.
	Run(ctx context.Context, input string) (*Result, error)
}

// Result describes a finished invocation.
type Result struct {
	// Answer is the content of the final model message, with configured
	// secrets redacted.
	Answer string

	// Iterations is the number of model consultations.
	Iterations int

	// ToolCalls logs every tool execution in order.
	ToolCalls []ToolCallRecord

	// Conversation holds the full message history of the invocation.
	Conversation *types.Conversation
}

// ToolCallRecord is one executed tool request.
type ToolCallRecord struct {
	Request   types.ToolRequest
	Result    types.ToolResult
	Iteration int
}
