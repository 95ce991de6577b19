package invocation

import (
	"context"
	"errors"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/agent"
	"github.com/mpulaparthi/web-agent/pkg/logging"
	"github.com/mpulaparthi/web-agent/pkg/security"
	"github.com/mpulaparthi/web-agent/pkg/telemetry"
)

var invocationLog = logging.NewLogger("invocation")

const outcomeNoInput = "no_input"

// Handler runs one agent invocation per event. It is safe for concurrent
// use when the agent is.
type Handler struct {
	agent    agent.Agent
	redactor *security.Redactor
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRedactor masks secrets in error descriptions. Answers are already
// redacted by the agent.
func WithRedactor(r *security.Redactor) HandlerOption {
	return func(h *Handler) {
		h.redactor = r
	}
}

// NewHandler creates a Handler around ag.
func NewHandler(ag agent.Agent, opts ...HandlerOption) *Handler {
	h := &Handler{agent: ag}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Invoke handles one event. Failures are reported in the Response, never
// returned.
func (h *Handler) Invoke(ctx context.Context, event Event) Response {
	invocationLog.Infof("Received event with %d keys", len(event))

	input, err := ParseInput(event)
	if err != nil {
		telemetry.Invocations.WithLabelValues(outcomeNoInput).Inc()
		invocationLog.Warnf("Rejected event: %v", err)
		return Failure(err)
	}
	return h.Run(ctx, input)
}

// Run handles one prompt.
func (h *Handler) Run(ctx context.Context, input string) Response {
	invocationLog.Infof("Processing input: %s", input)

	start := time.Now()
	result, err := h.agent.Run(ctx, input)
	telemetry.InvocationDuration.Observe(time.Since(start).Seconds())
	telemetry.Invocations.WithLabelValues(telemetry.Outcome(err)).Inc()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			invocationLog.Errorf("Invocation timed out after %s: %v", time.Since(start).Round(time.Millisecond), err)
		} else {
			invocationLog.Errorf("Invocation failed: %v", err)
		}
		return Response{Error: h.redactor.Redact(err.Error())}
	}

	invocationLog.Infof("Invocation finished in %s after %d iterations and %d tool calls",
		time.Since(start).Round(time.Millisecond), result.Iterations, len(result.ToolCalls))
	return Success(result.Answer)
}
