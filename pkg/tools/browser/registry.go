package browser

import (
	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

// DoneAction is the name of the action that ends a browsing task.
const DoneAction = "done"

// Actions returns the browsing actions bound to session, in the order they
// are offered to the model. The last one is the loop-breaking done action.
func Actions(session *Session) []tools.Tool {
	return []tools.Tool{
		NewNavigateTool(session),
		NewClickTool(session),
		NewFillTool(session),
		NewExtractContentTool(session),
		NewSearchTool(session),
		NewWaitTool(session),
		NewGoBackTool(session),
		tools.NewTaskCompletionTool(),
	}
}

// NewActionRegistry creates a registry holding the actions for session.
func NewActionRegistry(session *Session) (*tools.Registry, error) {
	return tools.NewRegistry(Actions(session)...)
}
