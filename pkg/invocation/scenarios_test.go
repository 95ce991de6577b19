package invocation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpulaparthi/web-agent/pkg/agent"
	"github.com/mpulaparthi/web-agent/pkg/remote"
	"github.com/mpulaparthi/web-agent/pkg/security"
	"github.com/mpulaparthi/web-agent/pkg/tools/browser"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// The tests below drive the real agent, browse_web tool, executor, and
// sub-agent. Only the model, the session service, and the browser are
// faked.

type scriptedProvider struct {
	mu        sync.Mutex
	responses []*types.Message
	calls     [][]*types.Message
	onCall    func(n int) error
}

func (p *scriptedProvider) Complete(_ context.Context, messages []*types.Message, _ []types.ToolSchema) (*types.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, messages)
	if p.onCall != nil {
		if err := p.onCall(len(p.calls) - 1); err != nil {
			return nil, err
		}
	}
	if len(p.responses) == 0 {
		return types.NewAssistantMessage("out of script"), nil
	}
	next := p.responses[0]
	p.responses = p.responses[1:]
	return next, nil
}

func (p *scriptedProvider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Name: "scripted", Provider: "fake"}
}

func (p *scriptedProvider) GetModel() string { return "scripted" }

func toolRequest(id, name string, args map[string]string) *types.Message {
	raw, _ := json.Marshal(args)
	return types.NewToolRequestMessage("", types.ToolRequest{ID: id, Name: name, Arguments: raw})
}

type countingSessions struct {
	mu     sync.Mutex
	opened int
	closed int
}

func (s *countingSessions) Open(_ context.Context, region string) (*remote.SessionHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened++
	return &remote.SessionHandle{
		ID:       "sess-1",
		Region:   region,
		Endpoint: "wss://bedrock-agentcore." + region + ".amazonaws.com/browser-streams/aws.browser.v1/sessions/sess-1/automation",
		Headers:  http.Header{"Authorization": {"AWS4-HMAC-SHA256 test"}},
	}, nil
}

func (s *countingSessions) Close(context.Context, *remote.SessionHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// blankPage is a page that never changes.
type blankPage struct{}

func (blankPage) Navigate(context.Context, string) error { return nil }
func (blankPage) URL() string                            { return "about:blank" }
func (blankPage) Title(context.Context) (string, error)  { return "", nil }
func (blankPage) HTML(context.Context) (string, error) {
	return "<html><body><p>blank</p></body></html>", nil
}
func (blankPage) Text(context.Context, string) (string, error)             { return "blank", nil }
func (blankPage) Click(context.Context, string) error                      { return nil }
func (blankPage) Fill(context.Context, string, string) error               { return nil }
func (blankPage) WaitFor(context.Context, string, browser.WaitState) error { return nil }
func (blankPage) GoBack(context.Context) error                             { return nil }

type stubBrowser struct{}

func (stubBrowser) Page(context.Context) (browser.Page, error) { return blankPage{}, nil }
func (stubBrowser) Close() error                               { return nil }

type stubDriver struct {
	err error
}

func (d stubDriver) Name() string { return "stub" }

func (d stubDriver) Connect(context.Context, string, map[string]string) (browser.Browser, error) {
	if d.err != nil {
		return nil, d.err
	}
	return stubBrowser{}, nil
}

type stack struct {
	provider *scriptedProvider
	sessions *countingSessions
	handler  *Handler
}

func newStack(provider *scriptedProvider, driver browser.Driver, password string) *stack {
	sessions := &countingSessions{}
	executor := browser.NewExecutor(sessions, driver, browser.NewSubAgent(provider))
	tool := browser.NewBrowseWebTool(executor,
		browser.WithCredentials(browser.NewCredentialInjector("analyst@invesco.test", password)),
	)
	redactor := security.NewRedactor(password)
	ag := agent.NewDefaultAgent(provider,
		agent.WithTools(tool),
		agent.WithRedactor(redactor),
	)
	return &stack{
		provider: provider,
		sessions: sessions,
		handler:  NewHandler(ag, WithRedactor(redactor)),
	}
}

func (s *stack) assertSessionsBalanced(t *testing.T) {
	t.Helper()
	assert.Equal(t, s.sessions.opened, s.sessions.closed, "every opened session must be closed")
}

func TestScenario_PlainAnswer(t *testing.T) {
	s := newStack(&scriptedProvider{responses: []*types.Message{
		types.NewAssistantMessage("4"),
	}}, stubDriver{}, "hunter2pw")

	resp := s.handler.Invoke(context.Background(), Event{"prompt": "What is 2+2?"})
	assert.Equal(t, Success("4"), resp)
	assert.Len(t, s.provider.calls, 1)
	assert.Zero(t, s.sessions.opened)
	s.assertSessionsBalanced(t)
}

func TestScenario_BrowseThenAnswer(t *testing.T) {
	s := newStack(&scriptedProvider{responses: []*types.Message{
		toolRequest("t1", "browse_web", map[string]string{"task": "find today's weather on example.com"}),
		toolRequest("s1", browser.DoneAction, map[string]string{"result": "Sunny, 72F"}),
		types.NewAssistantMessage("It's sunny and 72F"),
	}}, stubDriver{}, "hunter2pw")

	resp := s.handler.Invoke(context.Background(), Event{"prompt": "Find today's weather on example.com"})
	assert.Equal(t, Success("It's sunny and 72F"), resp)
	assert.Equal(t, 1, s.sessions.opened)
	s.assertSessionsBalanced(t)

	// The top-level model sees the executor's result.
	require.Len(t, s.provider.calls, 3)
	final := s.provider.calls[2]
	result := final[len(final)-1].Result
	require.NotNil(t, result)
	assert.Equal(t, "t1", result.RequestID)
	assert.Equal(t, "Sunny, 72F", result.Output)

	// No credentials for a task without a trigger.
	assert.NotContains(t, s.provider.calls[1][1].Content, "hunter2pw")
}

func TestScenario_CredentialInjection(t *testing.T) {
	s := newStack(&scriptedProvider{responses: []*types.Message{
		toolRequest("t1", "browse_web", map[string]string{"task": "Log in to Invesco Vision and list my saved portfolios"}),
		toolRequest("s1", browser.DoneAction, map[string]string{"result": "Portfolios: Growth, Income"}),
		types.NewAssistantMessage("Logged in with hunter2pw. Portfolios: Growth, Income"),
	}}, stubDriver{}, "hunter2pw")

	resp := s.handler.Invoke(context.Background(), Event{"prompt": "List my Invesco portfolios"})
	require.False(t, resp.Failed(), resp.Error)

	task := s.provider.calls[1][1].Content
	assert.Contains(t, task, "Log in to Invesco Vision and list my saved portfolios")
	assert.Contains(t, task, "Email: analyst@invesco.test")
	assert.Contains(t, task, "Password: hunter2pw")
	assert.Contains(t, task, "Do not output the password")

	assert.NotContains(t, resp.Answer, "hunter2pw")
	assert.Contains(t, resp.Answer, "Portfolios: Growth, Income")
	s.assertSessionsBalanced(t)
}

func TestScenario_ConnectivityFailure(t *testing.T) {
	s := newStack(&scriptedProvider{responses: []*types.Message{
		toolRequest("t1", "browse_web", map[string]string{"task": "find today's weather on example.com"}),
	}}, stubDriver{err: errors.New("dial tcp: connection refused")}, "hunter2pw")

	resp := s.handler.Invoke(context.Background(), Event{"prompt": "Find today's weather on example.com"})
	assert.True(t, resp.Failed())
	assert.Contains(t, resp.Error, "connection refused")
	assert.Empty(t, resp.Answer)

	assert.Equal(t, 1, s.sessions.opened)
	s.assertSessionsBalanced(t)
}

func TestScenario_CancelledMidBrowse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &scriptedProvider{responses: []*types.Message{
		toolRequest("t1", "browse_web", map[string]string{"task": "find today's weather on example.com"}),
	}}
	provider.onCall = func(n int) error {
		if n == 1 {
			cancel()
			return ctx.Err()
		}
		return nil
	}
	s := newStack(provider, stubDriver{}, "hunter2pw")

	resp := s.handler.Invoke(ctx, Event{"prompt": "Find today's weather on example.com"})
	assert.True(t, resp.Failed())
	assert.Equal(t, 1, s.sessions.opened)
	s.assertSessionsBalanced(t)
}
