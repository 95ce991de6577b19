package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func browseRequest(id, task string) ToolRequest {
	args, _ := json.Marshal(map[string]string{"task": task})
	return ToolRequest{ID: id, Name: "browse_web", Arguments: args}
}

func TestMessageKind(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want MessageKind
	}{
		{"system", NewSystemMessage("be helpful"), KindSystem},
		{"human", NewUserMessage("hi"), KindHuman},
		{"ai plain", NewAssistantMessage("4"), KindAIPlain},
		{"ai tool request", NewToolRequestMessage("", browseRequest("t1", "x")), KindAIToolRequest},
		{"tool result", NewToolResultMessage("t1", "ok"), KindToolResult},
		{"tool error", NewToolErrorMessage("t1", errors.New("boom")), KindToolResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Kind())
		})
	}
}

func TestToolResult_Text(t *testing.T) {
	ok := NewToolResultMessage("t1", "Sunny, 72F")
	assert.False(t, ok.Result.IsError())
	assert.Equal(t, "Sunny, 72F", ok.Result.Text())

	failed := NewToolErrorMessage("t1", errors.New("connection refused"))
	assert.True(t, failed.Result.IsError())
	assert.Empty(t, failed.Result.Output)
	assert.Equal(t, "Error: connection refused", failed.Result.Text())
}

func TestNewConversation_SeedsOneHumanMessage(t *testing.T) {
	conv := NewConversation("What is 2+2?")

	require.Equal(t, 1, conv.Len())
	assert.Equal(t, KindHuman, conv.Last().Kind())
	assert.Equal(t, "What is 2+2?", conv.Last().Content)
}

func TestConversation_MessagesReturnsCopy(t *testing.T) {
	conv := NewConversation("hi")
	msgs := conv.Messages()
	msgs[0] = NewAssistantMessage("mutated")

	assert.Equal(t, KindHuman, conv.Messages()[0].Kind())
}

func TestConversation_Pending(t *testing.T) {
	conv := NewConversation("find two things")
	assert.Empty(t, conv.Pending())

	conv.Append(NewToolRequestMessage("", browseRequest("a", "one"), browseRequest("b", "two")))
	assert.Len(t, conv.Pending(), 2)

	conv.Append(NewToolResultMessage("a", "first"))
	pending := conv.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	conv.Append(NewToolResultMessage("b", "second"))
	assert.Empty(t, conv.Pending())
}

func TestConversation_Validate(t *testing.T) {
	t.Run("plain answer", func(t *testing.T) {
		conv := NewConversation("What is 2+2?")
		conv.Append(NewAssistantMessage("4"))
		assert.NoError(t, conv.Validate())
	})

	t.Run("paired batch", func(t *testing.T) {
		conv := NewConversation("weather")
		conv.Append(
			NewToolRequestMessage("", browseRequest("a", "one"), browseRequest("b", "two")),
			NewToolResultMessage("a", "x"),
			NewToolErrorMessage("b", errors.New("y")),
			NewAssistantMessage("done"),
		)
		assert.NoError(t, conv.Validate())
	})

	t.Run("orphaned request before next model message", func(t *testing.T) {
		conv := NewConversation("weather")
		conv.Append(
			NewToolRequestMessage("", browseRequest("a", "one")),
			NewAssistantMessage("done"),
		)
		assert.ErrorIs(t, conv.Validate(), ErrOrphanedRequest)
	})

	t.Run("orphaned request at end", func(t *testing.T) {
		conv := NewConversation("weather")
		conv.Append(NewToolRequestMessage("", browseRequest("a", "one")))
		assert.ErrorIs(t, conv.Validate(), ErrOrphanedRequest)
	})

	t.Run("duplicate result", func(t *testing.T) {
		conv := NewConversation("weather")
		conv.Append(
			NewToolRequestMessage("", browseRequest("a", "one")),
			NewToolResultMessage("a", "x"),
			NewToolResultMessage("a", "x"),
		)
		assert.ErrorIs(t, conv.Validate(), ErrUnpairedResult)
	})

	t.Run("result with unknown id", func(t *testing.T) {
		conv := NewConversation("weather")
		conv.Append(
			NewToolRequestMessage("", browseRequest("a", "one")),
			NewToolResultMessage("zzz", "x"),
		)
		assert.ErrorIs(t, conv.Validate(), ErrUnpairedResult)
	})

	t.Run("result without request", func(t *testing.T) {
		conv := NewConversation("weather")
		conv.Append(NewToolResultMessage("a", "x"))
		assert.ErrorIs(t, conv.Validate(), ErrUnpairedResult)
	})
}
