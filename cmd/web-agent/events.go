package main

import (
	"fmt"
	"io"

	"github.com/mpulaparthi/web-agent/pkg/security"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// eventPrinter returns a handler that prints agent events to w when
// --verbose is set, with secrets masked. It returns nil otherwise.
func eventPrinter(w io.Writer, secrets []string) types.EventHandler {
	if !verbose {
		return nil
	}
	redactor := security.NewRedactor(secrets...)
	return func(e *types.AgentEvent) {
		if line := formatEvent(e); line != "" {
			fmt.Fprintln(w, redactor.Redact(line))
		}
	}
}

func formatEvent(e *types.AgentEvent) string {
	switch e.Type {
	case types.EventTypeAPICallStart:
		return fmt.Sprintf("[%d] thinking...", e.Iteration)
	case types.EventTypeToolCall:
		return fmt.Sprintf("[%d] -> %s %v", e.Iteration, e.ToolName, e.ToolInput)
	case types.EventTypeToolResult:
		return fmt.Sprintf("[%d] <- %s: %v", e.Iteration, e.ToolName, e.ToolOutput)
	case types.EventTypeToolResultError:
		return fmt.Sprintf("[%d] <- %s failed: %v", e.Iteration, e.ToolName, e.Error)
	case types.EventTypeBrowserStep:
		return fmt.Sprintf("    browser step %d: %s %s", e.Iteration, e.ToolName, e.Content)
	case types.EventTypeError:
		return fmt.Sprintf("error: %v", e.Error)
	default:
		return ""
	}
}
