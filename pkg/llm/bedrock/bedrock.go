// Package bedrock provides a model provider backed by the Amazon Bedrock
// Converse API with native tool use.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/mpulaparthi/web-agent/pkg/llm"
	"github.com/mpulaparthi/web-agent/pkg/llm/parser"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// DefaultModel is the Claude model the agent was tuned against.
const DefaultModel = "anthropic.claude-3-5-sonnet-20240620-v1:0"

// ConverseAPI abstracts the Bedrock runtime operation used by [Provider].
// The [bedrockruntime.Client] type satisfies this interface.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Provider implements llm.Provider on top of Converse.
type Provider struct {
	client      ConverseAPI
	model       string
	region      string
	temperature float32
	maxTokens   int32
	modelInfo   *types.ModelInfo
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel sets the Bedrock model ID.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithRegion records the region the client was built for.
func WithRegion(region string) Option {
	return func(p *Provider) {
		p.region = region
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(p *Provider) {
		p.temperature = float32(temperature)
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Provider) {
		p.maxTokens = int32(maxTokens)
	}
}

// NewProvider creates a provider using client. Retries are configured on
// the client itself.
func NewProvider(client ConverseAPI, opts ...Option) *Provider {
	p := &Provider{
		client:    client,
		model:     DefaultModel,
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.modelInfo = &types.ModelInfo{
		Metadata:      map[string]interface{}{},
		Name:          p.model,
		Provider:      "bedrock",
		MaxTokens:     int(p.maxTokens),
		SupportsTools: true,
	}
	if p.region != "" {
		p.modelInfo.Metadata["region"] = p.region
	}
	return p
}

// CloneWithModel returns a copy of p that targets model with the same client.
func (p *Provider) CloneWithModel(model string) llm.Provider {
	clone := *p
	clone.model = model
	mi := *p.modelInfo
	mi.Name = model
	clone.modelInfo = &mi
	return &clone
}

// Complete runs one Converse call.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message, tools []types.ToolSchema) (*types.Message, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(p.model),
		InferenceConfig: &brtypes.InferenceConfiguration{
			Temperature: aws.Float32(p.temperature),
			MaxTokens:   aws.Int32(p.maxTokens),
		},
	}
	input.System, input.Messages = convertToBedrockMessages(messages)
	if len(tools) > 0 {
		input.ToolConfig = convertToBedrockTools(tools)
	}

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		return nil, describeError(err)
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("converse returned unexpected output %T", out.Output)
	}
	return convertFromBedrockMessage(msg.Value)
}

// GetModelInfo returns information about the model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model ID.
func (p *Provider) GetModel() string {
	return p.model
}

// describeError wraps AWS API errors with their code for readable output.
func describeError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("bedrock converse: %s: %s: %w", apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
	}
	return fmt.Errorf("bedrock converse: %w", err)
}

func convertToBedrockTools(tools []types.ToolSchema) *brtypes.ToolConfiguration {
	cfg := &brtypes.ToolConfiguration{}
	for _, tool := range tools {
		cfg.Tools = append(cfg.Tools, &brtypes.ToolMemberToolSpec{
			Value: brtypes.ToolSpecification{
				Name:        aws.String(tool.Name),
				Description: aws.String(tool.Description),
				InputSchema: &brtypes.ToolInputSchemaMemberJson{
					Value: document.NewLazyDocument(tool.Parameters),
				},
			},
		})
	}
	return cfg
}

// convertToBedrockMessages splits out system prompts and maps the rest to
// Converse messages. Consecutive tool results share one user message, as
// Converse requires all results for a turn in the message that follows it.
func convertToBedrockMessages(messages []*types.Message) ([]brtypes.SystemContentBlock, []brtypes.Message) {
	var system []brtypes.SystemContentBlock
	var out []brtypes.Message

	for _, msg := range messages {
		switch msg.Kind() {
		case types.KindSystem:
			system = append(system, &brtypes.SystemContentBlockMemberText{Value: msg.Content})

		case types.KindHuman:
			out = append(out, brtypes.Message{
				Role:    brtypes.ConversationRoleUser,
				Content: textBlocks(msg.Content),
			})

		case types.KindAIPlain:
			out = append(out, brtypes.Message{
				Role:    brtypes.ConversationRoleAssistant,
				Content: textBlocks(msg.Content),
			})

		case types.KindAIToolRequest:
			content := textBlocks(msg.Content)
			for _, req := range msg.ToolRequests {
				content = append(content, &brtypes.ContentBlockMemberToolUse{
					Value: brtypes.ToolUseBlock{
						ToolUseId: aws.String(req.ID),
						Name:      aws.String(req.Name),
						Input:     document.NewLazyDocument(decodeArguments(req.Arguments)),
					},
				})
			}
			out = append(out, brtypes.Message{Role: brtypes.ConversationRoleAssistant, Content: content})

		case types.KindToolResult:
			block := toolResultBlock(msg.Result)
			if n := len(out); n > 0 && out[n-1].Role == brtypes.ConversationRoleUser && isToolResultMessage(out[n-1]) {
				out[n-1].Content = append(out[n-1].Content, block)
				continue
			}
			out = append(out, brtypes.Message{
				Role:    brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{block},
			})
		}
	}

	return system, out
}

// textBlocks returns a single text block, or none for empty text; Converse
// rejects blank text blocks.
func textBlocks(text string) []brtypes.ContentBlock {
	if text == "" {
		return nil
	}
	return []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}}
}

func toolResultBlock(result *types.ToolResult) brtypes.ContentBlock {
	status := brtypes.ToolResultStatusSuccess
	if result.IsError() {
		status = brtypes.ToolResultStatusError
	}
	text := result.Text()
	if text == "" {
		text = "(empty result)"
	}
	return &brtypes.ContentBlockMemberToolResult{
		Value: brtypes.ToolResultBlock{
			ToolUseId: aws.String(result.RequestID),
			Status:    status,
			Content: []brtypes.ToolResultContentBlock{
				&brtypes.ToolResultContentBlockMemberText{Value: text},
			},
		},
	}
}

func isToolResultMessage(msg brtypes.Message) bool {
	for _, block := range msg.Content {
		if _, ok := block.(*brtypes.ContentBlockMemberToolResult); !ok {
			return false
		}
	}
	return len(msg.Content) > 0
}

// decodeArguments turns raw JSON arguments into a value for a lazy
// document. Invalid JSON is passed as an empty object.
func decodeArguments(raw json.RawMessage) interface{} {
	args := map[string]interface{}{}
	if len(raw) == 0 {
		return args
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return map[string]interface{}{}
	}
	return args
}

func convertFromBedrockMessage(msg brtypes.Message) (*types.Message, error) {
	var text string
	var requests []types.ToolRequest

	for _, block := range msg.Content {
		switch b := block.(type) {
		case *brtypes.ContentBlockMemberText:
			text += b.Value
		case *brtypes.ContentBlockMemberToolUse:
			args := json.RawMessage("{}")
			if b.Value.Input != nil {
				raw, err := b.Value.Input.MarshalSmithyDocument()
				if err != nil {
					return nil, fmt.Errorf("failed to decode tool input for %s: %w", aws.ToString(b.Value.Name), err)
				}
				args = raw
			}
			requests = append(requests, types.ToolRequest{
				ID:        aws.ToString(b.Value.ToolUseId),
				Name:      aws.ToString(b.Value.Name),
				Arguments: args,
			})
		}
	}

	text = parser.StripThinking(text)
	if len(requests) == 0 {
		return types.NewAssistantMessage(text), nil
	}
	return types.NewToolRequestMessage(text, requests...), nil
}
