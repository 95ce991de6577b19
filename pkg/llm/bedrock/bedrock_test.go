package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpulaparthi/web-agent/pkg/types"
)

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// fakeConverse records inputs and replays canned outputs.
type fakeConverse struct {
	inputs  []*bedrockruntime.ConverseInput
	outputs []*bedrockruntime.ConverseOutput
	err     error
}

func (f *fakeConverse) Converse(_ context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	out := f.outputs[0]
	f.outputs = f.outputs[1:]
	return out, nil
}

func messageOutput(blocks ...brtypes.ContentBlock) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{Role: brtypes.ConversationRoleAssistant, Content: blocks},
		},
	}
}

var browseSchema = types.ToolSchema{
	Name:        "browse_web",
	Description: "Use a web browser to perform a task.",
	Parameters: map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"task": map[string]interface{}{"type": "string"}},
		"required":   []string{"task"},
	},
}

func TestCompleteToolUse(t *testing.T) {
	fake := &fakeConverse{outputs: []*bedrockruntime.ConverseOutput{
		messageOutput(
			&brtypes.ContentBlockMemberText{Value: "<thinking>need the browser</thinking>Let me check."},
			&brtypes.ContentBlockMemberToolUse{Value: brtypes.ToolUseBlock{
				ToolUseId: aws.String("tooluse_1"),
				Name:      aws.String("browse_web"),
				Input:     document.NewLazyDocument(map[string]interface{}{"task": "open example.com"}),
			}},
		),
	}}
	p := NewProvider(fake, WithRegion("us-west-2"))

	msg, err := p.Complete(context.Background(), []*types.Message{
		types.NewSystemMessage("system prompt"),
		types.NewUserMessage("title of example.com?"),
	}, []types.ToolSchema{browseSchema})
	require.NoError(t, err)

	require.True(t, msg.HasToolRequests())
	assert.Equal(t, "Let me check.", msg.Content)
	assert.Equal(t, "tooluse_1", msg.ToolRequests[0].ID)
	assert.Equal(t, "browse_web", msg.ToolRequests[0].Name)
	assert.JSONEq(t, `{"task":"open example.com"}`, string(msg.ToolRequests[0].Arguments))

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, DefaultModel, aws.ToString(in.ModelId))
	assert.Equal(t, float32(0), aws.ToFloat32(in.InferenceConfig.Temperature))
	require.Len(t, in.System, 1)
	require.Len(t, in.Messages, 1)
	require.NotNil(t, in.ToolConfig)
	assert.Len(t, in.ToolConfig.Tools, 1)
	assert.Equal(t, "us-west-2", p.GetModelInfo().Metadata["region"])
}

func TestToolResultsAreGrouped(t *testing.T) {
	conv := []*types.Message{
		types.NewUserMessage("do two things"),
		types.NewToolRequestMessage("",
			types.ToolRequest{ID: "a", Name: "browse_web", Arguments: json.RawMessage(`{"task":"one"}`)},
			types.ToolRequest{ID: "b", Name: "browse_web", Arguments: json.RawMessage(`{"task":"two"}`)},
		),
		types.NewToolResultMessage("a", "first"),
		types.NewToolErrorMessage("b", errors.New("boom")),
	}

	system, msgs := convertToBedrockMessages(conv)
	assert.Empty(t, system)
	require.Len(t, msgs, 3)

	assert.Equal(t, brtypes.ConversationRoleAssistant, msgs[1].Role)
	assert.Len(t, msgs[1].Content, 2, "empty text is not sent")

	results := msgs[2]
	assert.Equal(t, brtypes.ConversationRoleUser, results.Role)
	require.Len(t, results.Content, 2)
	second := results.Content[1].(*brtypes.ContentBlockMemberToolResult)
	assert.Equal(t, "b", aws.ToString(second.Value.ToolUseId))
	assert.Equal(t, brtypes.ToolResultStatusError, second.Value.Status)
}

func TestCompleteFinalAnswer(t *testing.T) {
	fake := &fakeConverse{outputs: []*bedrockruntime.ConverseOutput{
		messageOutput(&brtypes.ContentBlockMemberText{Value: "Example Domain"}),
	}}
	p := NewProvider(fake)

	msg, err := p.Complete(context.Background(), []*types.Message{types.NewUserMessage("title?")}, nil)
	require.NoError(t, err)
	assert.False(t, msg.HasToolRequests())
	assert.Equal(t, "Example Domain", msg.Content)
	assert.Nil(t, fake.inputs[0].ToolConfig)
}

func TestCompleteAPIError(t *testing.T) {
	fake := &fakeConverse{err: &apiError{code: "ThrottlingException", msg: "slow down"}}
	p := NewProvider(fake)

	_, err := p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hi")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ThrottlingException")

	var apiErr smithy.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestCloneWithModel(t *testing.T) {
	p := NewProvider(&fakeConverse{}, WithModel("m1"))
	clone := p.CloneWithModel("m2")

	assert.Equal(t, "m2", clone.GetModel())
	assert.Equal(t, "m1", p.GetModel())
	assert.Equal(t, "m1", p.GetModelInfo().Name)
}
