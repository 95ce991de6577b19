// Package openai provides an OpenAI-compatible provider with native tool
// calling.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	reply, err := provider.Complete(ctx, messages, tools)
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mpulaparthi/web-agent/pkg/llm"
	"github.com/mpulaparthi/web-agent/pkg/llm/parser"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model option is given.
	DefaultModel = "gpt-4o"
)

// Provider implements llm.Provider for OpenAI-compatible chat completion APIs.
type Provider struct {
	client      openai.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	maxRetries  int
	modelInfo   *types.ModelInfo
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs.
// This enables using Azure OpenAI, local models, or other compatible services.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ProviderOption {
	return func(p *Provider) {
		p.temperature = temperature
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(maxTokens int) ProviderOption {
	return func(p *Provider) {
		p.maxTokens = maxTokens
	}
}

// WithMaxRetries sets how many times the SDK retries a failed request.
func WithMaxRetries(maxRetries int) ProviderOption {
	return func(p *Provider) {
		p.maxRetries = maxRetries
	}
}

// NewProvider creates a new OpenAI provider with the given API key.
//
// Example:
//
//	// Standard OpenAI
//	provider, _ := openai.NewProvider("sk-...", openai.WithModel("gpt-4o"))
//
//	// Local OpenAI-compatible API
//	provider, _ := openai.NewProvider("local",
//	    openai.WithBaseURL("http://localhost:8080/v1"))
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	p := &Provider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxTokens:  4096,
		maxRetries: 3,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.client = openai.NewClient(
		option.WithAPIKey(p.apiKey),
		option.WithBaseURL(p.baseURL),
		option.WithMaxRetries(p.maxRetries),
	)

	p.modelInfo = &types.ModelInfo{
		Metadata:      make(map[string]interface{}),
		Name:          p.model,
		Provider:      "openai",
		MaxTokens:     p.maxTokens,
		SupportsTools: true,
	}

	// Store base URL in metadata if not default
	if p.baseURL != DefaultBaseURL {
		p.modelInfo.Metadata["base_url"] = p.baseURL
	}

	return p, nil
}

// CloneWithModel returns a shallow copy of p configured to use the given
// model. The clone shares the client with the original.
func (p *Provider) CloneWithModel(model string) llm.Provider {
	clone := *p
	clone.model = model
	if p.modelInfo != nil {
		mi := *p.modelInfo
		mi.Name = model
		clone.modelInfo = &mi
	}
	return &clone
}

// Complete sends the conversation and tool schemas to the chat completions
// endpoint and returns the assistant message.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message, tools []types.ToolSchema) (*types.Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:               p.model,
		Messages:            convertToOpenAIMessages(messages),
		Temperature:         openai.Float(p.temperature),
		MaxCompletionTokens: openai.Int(int64(p.maxTokens)),
	}
	for _, tool := range tools {
		params.Tools = append(params.Tools, convertToOpenAITool(tool))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return convertFromOpenAIMessage(resp.Choices[0].Message), nil
}

// GetModelInfo returns information about the OpenAI model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// GetBaseURL returns the base URL being used.
func (p *Provider) GetBaseURL() string {
	return p.baseURL
}

func convertToOpenAITool(tool types.ToolSchema) openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(tool.Description),
			Parameters:  openai.FunctionParameters(tool.Parameters),
		},
	}
}

// convertToOpenAIMessages converts our Message format to OpenAI's ChatCompletionMessageParamUnion format.
func convertToOpenAIMessages(messages []*types.Message) []openai.ChatCompletionMessageParamUnion {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Kind() {
		case types.KindSystem:
			openaiMessages = append(openaiMessages, openai.SystemMessage(msg.Content))
		case types.KindHuman:
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		case types.KindAIPlain:
			openaiMessages = append(openaiMessages, openai.AssistantMessage(msg.Content))
		case types.KindAIToolRequest:
			openaiMessages = append(openaiMessages, convertToolRequestMessage(msg))
		case types.KindToolResult:
			openaiMessages = append(openaiMessages, openai.ToolMessage(msg.Result.Text(), msg.Result.RequestID))
		}
	}

	return openaiMessages
}

func convertToolRequestMessage(msg *types.Message) openai.ChatCompletionMessageParamUnion {
	assistant := openai.ChatCompletionAssistantMessageParam{}
	if msg.Content != "" {
		assistant.Content.OfString = openai.String(msg.Content)
	}
	for _, req := range msg.ToolRequests {
		args := string(req.Arguments)
		if args == "" {
			args = "{}"
		}
		assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: req.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      req.Name,
				Arguments: args,
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

func convertFromOpenAIMessage(msg openai.ChatCompletionMessage) *types.Message {
	content := parser.StripThinking(msg.Content)
	if len(msg.ToolCalls) == 0 {
		return types.NewAssistantMessage(content)
	}

	requests := make([]types.ToolRequest, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		requests = append(requests, types.ToolRequest{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		})
	}
	return types.NewToolRequestMessage(content, requests...)
}
