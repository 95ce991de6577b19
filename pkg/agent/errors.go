package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool is returned when the model requests a tool that is not
	// registered. It always aborts the invocation.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolLoopExceeded is returned when the model is still requesting
	// tools after the configured number of consultations.
	ErrToolLoopExceeded = errors.New("tool loop exceeded maximum iterations")
)

// ToolExecutionError reports a tool failure under the propagate policy.
type ToolExecutionError struct {
	Tool      string
	RequestID string
	Err       error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// ModelInvocationError reports a failed model consultation.
type ModelInvocationError struct {
	Provider  string
	Iteration int
	Err       error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed (%s, iteration %d): %v", e.Provider, e.Iteration, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
