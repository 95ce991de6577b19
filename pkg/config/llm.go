package config

import (
	"fmt"
)

// Supported model providers.
const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"

	// DefaultBedrockModel is the Claude model used through Bedrock Converse.
	DefaultBedrockModel = "anthropic.claude-3-5-sonnet-20240620-v1:0"

	// DefaultOpenAIModel is used when the openai provider is selected
	// without an explicit model.
	DefaultOpenAIModel = "gpt-4o"

	// DefaultRegion is the AWS region used when none is configured.
	DefaultRegion = "us-west-2"
)

// LLMConfig selects and configures the model provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Region      string  `yaml:"region"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxRetries  int     `yaml:"max_retries"`

	// BaseURL and APIKey apply to the openai provider only.
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

func defaultLLM() LLMConfig {
	return LLMConfig{
		Provider:    ProviderBedrock,
		Region:      DefaultRegion,
		Temperature: 0,
		MaxTokens:   4096,
		MaxRetries:  3,
	}
}

// ResolvedModel returns the configured model or the provider's default.
func (c LLMConfig) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultBedrockModel
}

// Validate validates the LLM section.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderBedrock:
		if c.Region == "" {
			return fmt.Errorf("region is required for the bedrock provider")
		}
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("API key is required for the openai provider (set %s or llm.api_key)", EnvOpenAIKey)
		}
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Provider, ProviderBedrock, ProviderOpenAI)
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}
