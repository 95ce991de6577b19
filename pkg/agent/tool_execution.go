package agent

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
	"github.com/mpulaparthi/web-agent/pkg/telemetry"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

var (
	errEmptyResponse      = errors.New("provider returned no message")
	errUnansweredRequests = errors.New("tool requests without results")
)

// act executes each request of the batch in order and appends one result
// per request. Results are appended only after execution, so the next model
// consultation sees every result of the batch.
func (a *DefaultAgent) act(ctx context.Context, conv *types.Conversation, requests []types.ToolRequest, iteration int, result *Result) error {
	for _, req := range requests {
		tool, ok := a.registry.Get(req.Name)
		if !ok {
			agentLog.Errorf("Model requested unknown tool %q", req.Name)
			return fmt.Errorf("%w: %s (available: %v)", ErrUnknownTool, req.Name, a.registry.Names())
		}

		output, toolErr := a.executeToolCall(ctx, tool, req, iteration)

		var msg *types.Message
		if toolErr != nil {
			msg = types.NewToolErrorMessage(req.ID, errors.New(a.redactor.Redact(toolErr.Error())))
		} else {
			msg = types.NewToolResultMessage(req.ID, a.redactor.Redact(output))
		}
		conv.Append(msg)
		result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
			Request:   req,
			Result:    *msg.Result,
			Iteration: iteration,
		})

		if toolErr == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if a.errorPolicy != PolicyReport {
			return &ToolExecutionError{Tool: req.Name, RequestID: req.ID, Err: toolErr}
		}
		agentLog.Warnf("Reporting %s failure to the model: %v", req.Name, toolErr)
	}
	return nil
}

// executeToolCall emits events around one tool execution.
func (a *DefaultAgent) executeToolCall(ctx context.Context, tool tools.Tool, req types.ToolRequest, iteration int) (string, error) {
	var args map[string]interface{}
	if err := tools.DecodeArguments(req.Arguments, &args); err != nil {
		args = map[string]interface{}{}
	}
	a.emitEvent(types.NewToolCallEvent(iteration, req.Name, a.redactArgs(args)))

	output, metadata, err := tool.Execute(ctx, req.Arguments)
	telemetry.ToolCalls.WithLabelValues(req.Name, telemetry.Outcome(err)).Inc()

	if err != nil {
		agentLog.Errorf("Tool %s failed: %v", req.Name, err)
		a.emitEvent(types.NewToolResultErrorEvent(iteration, req.Name, err))
		return "", err
	}

	event := types.NewToolResultEvent(iteration, req.Name, a.redactor.Redact(output))
	if len(metadata) > 0 {
		maps.Copy(event.Metadata, metadata)
	}
	a.emitEvent(event)
	return output, nil
}

// redactArgs masks secrets in string argument values for events.
func (a *DefaultAgent) redactArgs(args map[string]interface{}) map[string]interface{} {
	if a.redactor.Empty() {
		return args
	}
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok {
			v = a.redactor.Redact(s)
		}
		out[k] = v
	}
	return out
}
