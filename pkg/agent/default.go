package agent

import (
	"context"
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
	"github.com/mpulaparthi/web-agent/pkg/llm"
	"github.com/mpulaparthi/web-agent/pkg/logging"
	"github.com/mpulaparthi/web-agent/pkg/security"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

var agentLog = logging.NewLogger("agent")

// DefaultMaxIterations bounds model consultations per invocation.
const DefaultMaxIterations = 10

// ToolErrorPolicy decides what happens when a tool fails.
type ToolErrorPolicy string

const (
	// PolicyPropagate aborts the invocation with a ToolExecutionError.
	PolicyPropagate ToolErrorPolicy = "propagate"

	// PolicyReport returns the failure to the model as a tool result.
	PolicyReport ToolErrorPolicy = "report"
)

// DefaultAgent is the Deciding/Acting loop over an llm.Provider and a tool
// registry. It holds no per-invocation state and is safe for concurrent
// Run calls.
type DefaultAgent struct {
	provider      llm.Provider
	registry      *tools.Registry
	systemPrompt  string
	maxIterations int
	errorPolicy   ToolErrorPolicy
	redactor      *security.Redactor
	eventHandler  types.EventHandler
}

// AgentOption is a function that configures an agent
type AgentOption func(*DefaultAgent)

// WithSystemPrompt sets the system prompt sent ahead of the conversation.
func WithSystemPrompt(prompt string) AgentOption {
	return func(a *DefaultAgent) {
		a.systemPrompt = prompt
	}
}

// WithMaxIterations sets the maximum number of model consultations.
func WithMaxIterations(max int) AgentOption {
	return func(a *DefaultAgent) {
		a.maxIterations = max
	}
}

// WithToolErrorPolicy sets how tool failures are handled.
func WithToolErrorPolicy(policy ToolErrorPolicy) AgentOption {
	return func(a *DefaultAgent) {
		a.errorPolicy = policy
	}
}

// WithRedactor masks secrets in tool results and the final answer.
func WithRedactor(r *security.Redactor) AgentOption {
	return func(a *DefaultAgent) {
		a.redactor = r
	}
}

// WithTools registers tools with the agent.
func WithTools(ts ...tools.Tool) AgentOption {
	return func(a *DefaultAgent) {
		for _, t := range ts {
			if err := a.registry.Register(t); err != nil {
				agentLog.Warnf("Skipping tool: %v", err)
			}
		}
	}
}

// WithEventHandler receives every event emitted during Run.
func WithEventHandler(handler types.EventHandler) AgentOption {
	return func(a *DefaultAgent) {
		a.eventHandler = handler
	}
}

// NewDefaultAgent creates a new DefaultAgent with the given provider and options.
func NewDefaultAgent(provider llm.Provider, opts ...AgentOption) *DefaultAgent {
	registry, _ := tools.NewRegistry()
	a := &DefaultAgent{
		provider:      provider,
		registry:      registry,
		maxIterations: DefaultMaxIterations,
		errorPolicy:   PolicyPropagate,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	return a
}

// Tools returns the model-facing schemas of the registered tools.
func (a *DefaultAgent) Tools() []types.ToolSchema {
	return a.registry.Schemas()
}

// Run executes the Deciding/Acting loop for input.
//
// It returns the final answer when the model responds without tool
// requests. It returns ErrToolLoopExceeded when the iteration budget is
// exhausted, a *ModelInvocationError when the model fails, an error
// wrapping ErrUnknownTool for unregistered tools, and a *ToolExecutionError
// for tool failures under PolicyPropagate. The partial Result is returned
// alongside every error.
func (a *DefaultAgent) Run(ctx context.Context, input string) (*Result, error) {
	conv := types.NewConversation(input)
	result := &Result{Conversation: conv}
	schemas := a.registry.Schemas()

	agentLog.Infof("Starting invocation (max %d iterations, %d tools)", a.maxIterations, len(schemas))

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// Deciding
		response, err := a.decide(ctx, conv, schemas, iteration)
		result.Iterations = iteration
		if err != nil {
			a.emitEvent(types.NewErrorEvent(err))
			return result, err
		}

		if !response.HasToolRequests() {
			result.Answer = a.redactor.Redact(response.Content)
			a.emitEvent(types.NewNoToolCallEvent(result.Answer))
			a.emitEvent(types.NewTurnEndEvent(iteration))
			agentLog.Infof("Invocation finished after %d iterations", iteration)
			return result, nil
		}

		// Tools requested by the last allowed consultation are not run.
		if iteration == a.maxIterations {
			break
		}

		// Acting
		if err := a.act(ctx, conv, response.ToolRequests, iteration, result); err != nil {
			a.emitEvent(types.NewErrorEvent(err))
			return result, err
		}
	}

	err := fmt.Errorf("%w (%d)", ErrToolLoopExceeded, a.maxIterations)
	agentLog.Warnf("Invocation stopped: %v", err)
	a.emitEvent(types.NewErrorEvent(err))
	return result, err
}

// emitEvent forwards event to the configured handler.
func (a *DefaultAgent) emitEvent(event *types.AgentEvent) {
	if a.eventHandler != nil {
		a.eventHandler(event)
	}
}
