package config

import (
	"fmt"
)

// Tool error policies.
const (
	// ToolErrorPropagate aborts the invocation on the first tool failure.
	ToolErrorPropagate = "propagate"

	// ToolErrorReport hands tool failures back to the model as results.
	ToolErrorReport = "report"
)

// AgentConfig configures the top-level control loop.
type AgentConfig struct {
	MaxIterations   int    `yaml:"max_iterations"`
	ToolErrorPolicy string `yaml:"tool_error_policy"`
	RedactSecrets   bool   `yaml:"redact_secrets"`
	SystemPrompt    string `yaml:"system_prompt"`
}

func defaultAgent() AgentConfig {
	return AgentConfig{
		MaxIterations:   10,
		ToolErrorPolicy: ToolErrorPropagate,
		RedactSecrets:   true,
	}
}

// Validate validates the agent section.
func (c AgentConfig) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive")
	}
	switch c.ToolErrorPolicy {
	case ToolErrorPropagate, ToolErrorReport:
	default:
		return fmt.Errorf("unknown tool_error_policy %q", c.ToolErrorPolicy)
	}
	return nil
}
