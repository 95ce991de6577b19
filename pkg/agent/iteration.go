package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/telemetry"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// decide consults the model with the full conversation and appends the
// response. Every request of the previous batch must have a result.
func (a *DefaultAgent) decide(ctx context.Context, conv *types.Conversation, schemas []types.ToolSchema, iteration int) (*types.Message, error) {
	if pending := conv.Pending(); len(pending) > 0 {
		return nil, fmt.Errorf("%w: %d requests, first %s", errUnansweredRequests, len(pending), pending[0].ID)
	}

	providerName := "unknown"
	if info := a.provider.GetModelInfo(); info != nil {
		providerName = info.Provider
	}

	a.emitEvent(types.NewAPICallStartEvent(providerName, iteration))
	start := time.Now()

	response, err := a.provider.Complete(ctx, buildMessages(a.systemPrompt, conv), schemas)
	telemetry.ModelCalls.WithLabelValues(providerName, telemetry.Outcome(err)).Inc()
	a.emitEvent(types.NewAPICallEndEvent(providerName, iteration))

	if err != nil {
		// Cancellation is reported as-is rather than as a model failure
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		agentLog.Errorf("Model call failed on iteration %d: %v", iteration, err)
		return nil, &ModelInvocationError{Provider: providerName, Iteration: iteration, Err: err}
	}
	if response == nil {
		return nil, &ModelInvocationError{Provider: providerName, Iteration: iteration, Err: errEmptyResponse}
	}

	agentLog.Debugf("Model responded in %s with %d tool requests", time.Since(start).Round(time.Millisecond), len(response.ToolRequests))
	conv.Append(response)
	return response, nil
}
