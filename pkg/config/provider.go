package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/mpulaparthi/web-agent/pkg/llm"
	"github.com/mpulaparthi/web-agent/pkg/llm/bedrock"
	"github.com/mpulaparthi/web-agent/pkg/llm/openai"
)

// BuildProvider creates the model provider selected by the LLM section.
func BuildProvider(ctx context.Context, c LLMConfig) (llm.Provider, error) {
	model := c.ResolvedModel()

	switch c.Provider {
	case ProviderOpenAI:
		providerOpts := []openai.ProviderOption{
			openai.WithModel(model),
			openai.WithTemperature(c.Temperature),
			openai.WithMaxTokens(c.MaxTokens),
			openai.WithMaxRetries(c.MaxRetries),
		}
		if c.BaseURL != "" {
			providerOpts = append(providerOpts, openai.WithBaseURL(c.BaseURL))
		}
		provider, err := openai.NewProvider(c.APIKey, providerOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		return provider, nil

	case ProviderBedrock:
		awsCfg, err := LoadAWS(ctx, c.Region, c.MaxRetries)
		if err != nil {
			return nil, err
		}
		return bedrock.NewProvider(bedrockruntime.NewFromConfig(awsCfg),
			bedrock.WithModel(model),
			bedrock.WithRegion(c.Region),
			bedrock.WithTemperature(c.Temperature),
			bedrock.WithMaxTokens(c.MaxTokens),
		), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", c.Provider)
	}
}
