package types

// ModelInfo contains information about an LLM model.
type ModelInfo struct {
	// Metadata holds provider-specific details (base URL, region).
	Metadata map[string]interface{}

	// Name is the model identifier sent to the provider.
	Name string

	// Provider is the backend serving the model ("bedrock", "openai").
	Provider string

	// MaxTokens is the completion token limit requested per call.
	MaxTokens int

	// SupportsTools indicates native tool calling support.
	SupportsTools bool
}

// ToolSchema declares a tool to the model: its name, a description, and a
// JSON Schema object for its arguments.
type ToolSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}
