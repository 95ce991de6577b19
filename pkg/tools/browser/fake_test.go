package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/mpulaparthi/web-agent/pkg/remote"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// fakePage is an in-memory Page. Pages are keyed by URL; clicking a
// selector listed in links navigates to its target.
type fakePage struct {
	mu       sync.Mutex
	url      string
	back     []string
	pages    map[string]string // url -> html
	texts    map[string]string // selector -> text; "" is the body
	links    map[string]string // selector -> url
	fills    map[string]string
	clicks   []string
	waits    []string
	errs     map[string]error // operation -> error
	navCalls []string
}

func newFakePage() *fakePage {
	return &fakePage{
		url:   "about:blank",
		pages: map[string]string{"about:blank": "<html><head><title></title></head><body></body></html>"},
		texts: map[string]string{},
		links: map[string]string{},
		fills: map[string]string{},
		errs:  map[string]error{},
	}
}

func (p *fakePage) fail(op string) error {
	return p.errs[op]
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navCalls = append(p.navCalls, url)
	if err := p.fail("navigate"); err != nil {
		return err
	}
	p.back = append(p.back, p.url)
	p.url = url
	return nil
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Title(context.Context) (string, error) {
	return "", p.fail("title")
}

func (p *fakePage) HTML(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("html"); err != nil {
		return "", err
	}
	if html, ok := p.pages[p.url]; ok {
		return html, nil
	}
	return "<html><body><p>" + p.url + "</p></body></html>", nil
}

func (p *fakePage) Text(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("text"); err != nil {
		return "", err
	}
	text, ok := p.texts[selector]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return text, nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("click"); err != nil {
		return err
	}
	p.clicks = append(p.clicks, selector)
	if target, ok := p.links[selector]; ok {
		p.back = append(p.back, p.url)
		p.url = target
	}
	return nil
}

func (p *fakePage) Fill(_ context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("fill"); err != nil {
		return err
	}
	p.fills[selector] = value
	return nil
}

func (p *fakePage) WaitFor(_ context.Context, selector string, state WaitState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits = append(p.waits, selector+":"+string(state))
	return p.fail("wait")
}

func (p *fakePage) GoBack(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("back"); err != nil {
		return err
	}
	if len(p.back) == 0 {
		return errors.New("no history")
	}
	p.url = p.back[len(p.back)-1]
	p.back = p.back[:len(p.back)-1]
	return nil
}

// fakeBrowser hands out one page and counts closes.
type fakeBrowser struct {
	page    *fakePage
	pageErr error
	closed  int
}

func (b *fakeBrowser) Page(context.Context) (Page, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

func (b *fakeBrowser) Close() error {
	b.closed++
	return nil
}

// fakeDriver records the endpoint and headers it was given.
type fakeDriver struct {
	browser    *fakeBrowser
	connectErr error
	endpoint   string
	headers    map[string]string
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Connect(_ context.Context, endpoint string, headers map[string]string) (Browser, error) {
	d.endpoint = endpoint
	d.headers = headers
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	return d.browser, nil
}

// fakeSessions is a remote.Client that counts opens and closes.
type fakeSessions struct {
	mu      sync.Mutex
	opened  int
	closed  int
	region  string
	openErr error
}

func (f *fakeSessions) Open(_ context.Context, region string) (*remote.SessionHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	f.region = region
	return &remote.SessionHandle{
		ID:       fmt.Sprintf("sess-%d", f.opened),
		Region:   region,
		Endpoint: "wss://bedrock-agentcore.us-west-2.amazonaws.com/browser-streams/aws.browser.v1/sessions/sess/automation",
		Headers:  http.Header{"Authorization": {"AWS4-HMAC-SHA256 test"}},
	}, nil
}

func (f *fakeSessions) Close(context.Context, *remote.SessionHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// scriptedProvider replays responses in order and records what it was sent.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []*types.Message
	err       error
	calls     [][]*types.Message
}

func (p *scriptedProvider) Complete(_ context.Context, messages []*types.Message, _ []types.ToolSchema) (*types.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, messages)
	if p.err != nil {
		return nil, p.err
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

// action builds a model response requesting one browser action.
func action(id, name string, args map[string]interface{}) *types.Message {
	raw, _ := json.Marshal(args)
	return types.NewToolRequestMessage("", types.ToolRequest{ID: id, Name: name, Arguments: raw})
}

func doneAction(id, result string) *types.Message {
	return action(id, DoneAction, map[string]interface{}{"result": result})
}
