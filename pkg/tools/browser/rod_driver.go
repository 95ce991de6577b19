package browser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
)

const (
	jsHidden = `(s) => {
	const el = document.querySelector(s);
	return !el || el.offsetParent === null;
}`
	jsDetached = `(s) => document.querySelector(s) === null`
)

// RodDriver connects to remote browsers with go-rod over a CDP websocket
// that carries the signed headers.
type RodDriver struct {
	timeout time.Duration
}

// NewRodDriver creates a rod driver whose page operations time out after
// timeout unless the context deadline is sooner.
func NewRodDriver(timeout time.Duration) *RodDriver {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	return &RodDriver{timeout: timeout}
}

// Name returns the driver name.
func (d *RodDriver) Name() string {
	return "rod"
}

// Connect dials endpoint and attaches a rod browser to it.
func (d *RodDriver) Connect(ctx context.Context, endpoint string, headers map[string]string) (Browser, error) {
	header := http.Header{}
	for k, v := range headers {
		header.Set(k, v)
	}

	ws := &cdp.WebSocket{}
	if err := ws.Connect(ctx, endpoint, header); err != nil {
		return nil, fmt.Errorf("failed to dial CDP endpoint: %w", err)
	}

	browser := rod.New().Client(cdp.New().Start(ws)).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return &rodBrowser{browser: browser, timeout: d.timeout}, nil
}

type rodBrowser struct {
	browser *rod.Browser
	timeout time.Duration
}

func (b *rodBrowser) Page(ctx context.Context) (Page, error) {
	pages, err := b.browser.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	if len(pages) > 0 {
		return &rodPage{page: pages[0], timeout: b.timeout}, nil
	}

	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &rodPage{page: page, timeout: b.timeout}, nil
}

func (b *rodBrowser) Close() error {
	return b.browser.Close()
}

type rodPage struct {
	page    *rod.Page
	timeout time.Duration
}

// bound returns the page scoped to ctx and the action timeout.
func (p *rodPage) bound(ctx context.Context) *rod.Page {
	return p.page.Context(ctx).Timeout(p.timeout)
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.bound(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) Title(ctx context.Context) (string, error) {
	info, err := p.bound(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.bound(ctx).HTML()
}

func (p *rodPage) Text(ctx context.Context, selector string) (string, error) {
	if selector == "" {
		selector = "body"
	}
	found, el, err := p.bound(ctx).Has(selector)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return el.Text()
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.bound(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) Fill(ctx context.Context, selector, value string) error {
	el, err := p.bound(ctx).Element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	return el.Input(value)
}

func (p *rodPage) WaitFor(ctx context.Context, selector string, state WaitState) error {
	page := p.bound(ctx)
	switch state {
	case StateHidden:
		return page.Wait(rod.Eval(jsHidden, selector))
	case StateDetached:
		return page.Wait(rod.Eval(jsDetached, selector))
	}

	el, err := page.Element(selector)
	if err != nil {
		return err
	}
	if state == StateAttached {
		return nil
	}
	return el.WaitVisible()
}

func (p *rodPage) GoBack(ctx context.Context) error {
	return p.bound(ctx).NavigateBack()
}
