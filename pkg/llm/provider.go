// Package llm provides abstractions for model provider integration.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewUserMessage("Hello!"),
//	}, nil)
package llm

import (
	"context"

	"github.com/mpulaparthi/web-agent/pkg/types"
)

// ModelCloner is an optional interface that providers can implement to
// support per-call model overrides without constructing a second provider.
// The returned provider shares credentials and transport with the original.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}

// Provider defines the interface for model integrations.
//
// Providers translate the conversation and tool schemas to the backend's
// wire format and translate the reply back. They do not execute tools or
// keep conversation state; that is the agent's job.
type Provider interface {
	// Complete sends the messages and tool schemas to the model and returns
	// one assistant message. A message with ToolRequests asks the caller to
	// execute tools; otherwise Content is the final text.
	//
	// A leading system message, if present, is passed as the system prompt.
	// Thinking blocks are stripped from the returned content.
	Complete(ctx context.Context, messages []*types.Message, tools []types.ToolSchema) (*types.Message, error)

	// GetModelInfo returns information about the model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}
