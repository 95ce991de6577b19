package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
	"github.com/mpulaparthi/web-agent/pkg/llm"
	"github.com/mpulaparthi/web-agent/pkg/logging"
	"github.com/mpulaparthi/web-agent/pkg/telemetry"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

var browserLog = logging.NewLogger("browser")

// ErrTooManyFailures is returned when consecutive action failures reach the
// sub-agent's failure cap.
var ErrTooManyFailures = errors.New("too many consecutive browser action failures")

// Sub-agent defaults.
const (
	DefaultMaxSteps    = 25
	DefaultMaxFailures = 3

	noAction        = "none"
	unknownAction   = "unknown"
	maxSummaryChars = 200
)

const browsingPrompt = `You operate a web browser to complete a task for a user.

Each turn, call one or more browser actions. After your actions you receive the current page: its URL, its title, and its content as cleaned HTML.

Guidelines:
- Target elements with CSS selectors built from the id, name, data-testid, aria-label, or type attributes in the observed HTML.
- After submitting a form or clicking a link, check the next observation before acting again.
- Use extract_content or search_page when the information you need is not in the observation.
- When the task is complete, call done with the complete result. If the task cannot be completed, call done and explain why.
- Never include passwords or other credentials in the result.`

const noActionPrompt = "You must respond by calling a browser action. Call done with the result when the task is complete."

// SubAgent drives a browser page with the model until the task is done.
// It holds no per-task state and is safe for concurrent Run calls on
// different sessions.
type SubAgent struct {
	provider     llm.Provider
	maxSteps     int
	maxFailures  int
	systemPrompt string
	eventHandler types.EventHandler
}

// SubAgentOption configures a SubAgent.
type SubAgentOption func(*SubAgent)

// WithMaxSteps bounds the number of model consultations per task.
func WithMaxSteps(n int) SubAgentOption {
	return func(a *SubAgent) {
		a.maxSteps = n
	}
}

// WithMaxFailures sets how many consecutive action failures end the task.
func WithMaxFailures(n int) SubAgentOption {
	return func(a *SubAgent) {
		a.maxFailures = n
	}
}

// WithBrowsingPrompt replaces the sub-agent's system prompt.
func WithBrowsingPrompt(prompt string) SubAgentOption {
	return func(a *SubAgent) {
		a.systemPrompt = prompt
	}
}

// WithStepEventHandler receives a browser step event after every action.
func WithStepEventHandler(handler types.EventHandler) SubAgentOption {
	return func(a *SubAgent) {
		a.eventHandler = handler
	}
}

// NewSubAgent creates a browsing sub-agent backed by provider.
func NewSubAgent(provider llm.Provider, opts ...SubAgentOption) *SubAgent {
	a := &SubAgent{
		provider:     provider,
		maxSteps:     DefaultMaxSteps,
		maxFailures:  DefaultMaxFailures,
		systemPrompt: browsingPrompt,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxSteps <= 0 {
		a.maxSteps = DefaultMaxSteps
	}
	if a.maxFailures <= 0 {
		a.maxFailures = DefaultMaxFailures
	}
	return a
}

// Run plans, acts, and observes on session until the model calls done.
//
// A History is returned in every case. Exhausting the step budget is not an
// error: the History simply has no final result. Reaching the failure cap
// returns ErrTooManyFailures; a model failure or cancellation is returned
// as-is.
func (a *SubAgent) Run(ctx context.Context, task string, session *Session) (*History, error) {
	history := NewHistory(task)

	registry, err := NewActionRegistry(session)
	if err != nil {
		return history, err
	}
	schemas := registry.Schemas()

	obs, err := session.Observe(ctx)
	if err != nil {
		return history, fmt.Errorf("initial observation failed: %w", err)
	}
	conv := types.NewConversation(task + "\n\n" + obs.String())

	failures := 0
	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}

		response, err := a.plan(ctx, conv, schemas, step)
		if err != nil {
			return history, err
		}

		if !response.HasToolRequests() {
			failures++
			a.record(history, Step{Number: step, Action: noAction, Error: "no action chosen", URL: session.URL()}, noAction)
			if failures >= a.maxFailures {
				return history, fmt.Errorf("%w (%d)", ErrTooManyFailures, failures)
			}
			conv.Append(types.NewUserMessage(noActionPrompt))
			continue
		}

		results := make([]*types.Message, 0, len(response.ToolRequests))
		for _, req := range response.ToolRequests {
			start := time.Now()
			tool, output, actErr := a.act(ctx, registry, req)
			label := req.Name
			if tool == nil {
				label = unknownAction
			}
			a.record(history, Step{
				Number:    step,
				Action:    req.Name,
				Arguments: req.Arguments,
				Result:    output,
				Error:     errorText(actErr),
				URL:       session.URL(),
				Duration:  time.Since(start),
			}, label)

			if actErr != nil {
				if ctx.Err() != nil {
					return history, ctx.Err()
				}
				failures++
				if failures >= a.maxFailures {
					return history, fmt.Errorf("%w (%d): %v", ErrTooManyFailures, failures, actErr)
				}
				results = append(results, types.NewToolErrorMessage(req.ID, actErr))
				continue
			}

			failures = 0
			if tool.IsLoopBreaking() {
				history.Complete(output)
				browserLog.Infof("Task done after %d steps", step)
				return history, nil
			}
			results = append(results, types.NewToolResultMessage(req.ID, output))
		}

		a.attachObservation(ctx, session, results)
		conv.Append(results...)
	}

	browserLog.Warnf("Step budget of %d exhausted without a result", a.maxSteps)
	return history, nil
}

// plan consults the model and appends its response.
func (a *SubAgent) plan(ctx context.Context, conv *types.Conversation, schemas []types.ToolSchema, step int) (*types.Message, error) {
	messages := append([]*types.Message{types.NewSystemMessage(a.systemPrompt)}, conv.Messages()...)

	response, err := a.provider.Complete(ctx, messages, schemas)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("browsing model call failed at step %d: %w", step, err)
	}
	if response == nil {
		return nil, fmt.Errorf("browsing model returned no message at step %d", step)
	}

	conv.Append(response)
	return response, nil
}

// act runs one requested action. Unknown actions are failures the model can
// recover from, unlike in the top-level loop.
func (a *SubAgent) act(ctx context.Context, registry *tools.Registry, req types.ToolRequest) (tools.Tool, string, error) {
	tool, ok := registry.Get(req.Name)
	if !ok {
		return nil, "", fmt.Errorf("unknown action %q (available: %s)", req.Name, strings.Join(registry.Names(), ", "))
	}

	output, _, err := tool.Execute(ctx, req.Arguments)
	if err != nil {
		browserLog.Debugf("Action %s failed: %v", req.Name, err)
		return tool, "", err
	}
	return tool, output, nil
}

// attachObservation appends the current page to the last result of the
// step so the next plan sees it without an extra message.
func (a *SubAgent) attachObservation(ctx context.Context, session *Session, results []*types.Message) {
	if len(results) == 0 {
		return
	}

	var text string
	if obs, err := session.Observe(ctx); err != nil {
		text = fmt.Sprintf("Could not observe the page: %v", err)
	} else {
		text = obs.String()
	}

	last := results[len(results)-1].Result
	if last.IsError() {
		last.Error += "\n\n" + text
	} else {
		last.Output += "\n\n" + text
	}
}

// record adds step to history and reports it. label is the metric label
// for the action, which keeps unknown action names out of the metrics.
func (a *SubAgent) record(history *History, step Step, label string) {
	history.Add(step)

	outcome := telemetry.OutcomeSuccess
	summary := step.Result
	if step.Failed() {
		outcome = telemetry.OutcomeError
		summary = step.Error
	}
	telemetry.BrowserSteps.WithLabelValues(label, outcome).Inc()

	if a.eventHandler != nil {
		a.eventHandler(types.NewBrowserStepEvent(step.Number, step.Action, truncateSummary(summary)))
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func truncateSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxSummaryChars {
		return s
	}
	return string(runes[:maxSummaryChars]) + "..."
}
