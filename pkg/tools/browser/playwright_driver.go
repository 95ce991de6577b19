package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver connects to remote browsers with playwright's
// ConnectOverCDP. The playwright driver process is started on first use and
// shared by every connection until Stop.
type PlaywrightDriver struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	timeout time.Duration
}

// NewPlaywrightDriver creates a driver whose page operations time out after
// timeout unless the context deadline is sooner.
func NewPlaywrightDriver(timeout time.Duration) *PlaywrightDriver {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	return &PlaywrightDriver{timeout: timeout}
}

// Name returns the driver name.
func (d *PlaywrightDriver) Name() string {
	return "playwright"
}

func (d *PlaywrightDriver) start() (*playwright.Playwright, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pw != nil {
		return d.pw, nil
	}

	// Only the driver is needed; browsers live on the remote side.
	opts := &playwright.RunOptions{
		SkipInstallBrowsers: true,
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	d.pw = pw
	return pw, nil
}

// Connect attaches to endpoint over CDP.
func (d *PlaywrightDriver) Connect(ctx context.Context, endpoint string, headers map[string]string) (Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := d.start()
	if err != nil {
		return nil, err
	}

	browser, err := pw.Chromium.ConnectOverCDP(endpoint, playwright.BrowserTypeConnectOverCDPOptions{
		Headers: headers,
		Timeout: timeoutMillis(ctx, d.timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect over CDP: %w", err)
	}
	return &playwrightBrowser{browser: browser, timeout: d.timeout}, nil
}

// Stop shuts down the playwright driver process.
func (d *PlaywrightDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pw == nil {
		return nil
	}
	err := d.pw.Stop()
	d.pw = nil
	return err
}

type playwrightBrowser struct {
	browser playwright.Browser
	timeout time.Duration
}

func (b *playwrightBrowser) Page(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bctx playwright.BrowserContext
	if contexts := b.browser.Contexts(); len(contexts) > 0 {
		bctx = contexts[0]
	} else {
		created, err := b.browser.NewContext()
		if err != nil {
			return nil, fmt.Errorf("failed to create context: %w", err)
		}
		bctx = created
	}

	if pages := bctx.Pages(); len(pages) > 0 {
		return &playwrightPage{page: pages[0], timeout: b.timeout}, nil
	}

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &playwrightPage{page: page, timeout: b.timeout}, nil
}

func (b *playwrightBrowser) Close() error {
	return b.browser.Close()
}

type playwrightPage struct {
	page    playwright.Page
	timeout time.Duration
}

func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	waitUntil := playwright.WaitUntilState("domcontentloaded")
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   timeoutMillis(ctx, p.timeout),
		WaitUntil: &waitUntil,
	})
	return err
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Title()
}

func (p *playwrightPage) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Content()
}

func (p *playwrightPage) Text(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if selector == "" {
		selector = "body"
	}

	locator := p.page.Locator(selector)
	count, err := locator.Count()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return locator.First().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: timeoutMillis(ctx, p.timeout),
	})
}

func (p *playwrightPage) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: timeoutMillis(ctx, p.timeout),
	})
}

func (p *playwrightPage) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: timeoutMillis(ctx, p.timeout),
	})
}

func (p *playwrightPage) WaitFor(ctx context.Context, selector string, state WaitState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	waitState := playwright.WaitForSelectorState(state)
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   &waitState,
		Timeout: timeoutMillis(ctx, p.timeout),
	})
}

func (p *playwrightPage) GoBack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.GoBack(playwright.PageGoBackOptions{
		Timeout: timeoutMillis(ctx, p.timeout),
	})
	return err
}

// timeoutMillis converts the smaller of def and the time left on ctx into
// the millisecond timeout playwright expects.
func timeoutMillis(ctx context.Context, def time.Duration) *float64 {
	d := def
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	ms := float64(d.Milliseconds())
	return &ms
}
