package agent

import (
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// buildMessages prepends the system prompt, if any, to the conversation.
// The system message is never stored in the conversation itself.
func buildMessages(systemPrompt string, conv *types.Conversation) []*types.Message {
	history := conv.Messages()
	if systemPrompt == "" {
		return history
	}

	messages := make([]*types.Message, 0, len(history)+1)
	messages = append(messages, types.NewSystemMessage(systemPrompt))
	return append(messages, history...)
}
