package browser

import (
	"context"
	"errors"
)

// ErrElementNotFound is returned when a selector matches nothing.
var ErrElementNotFound = errors.New("no element matches selector")

// Driver attaches to a remote browser over the Chrome DevTools Protocol.
type Driver interface {
	// Name identifies the driver in logs ("playwright", "rod").
	Name() string

	// Connect attaches to the CDP endpoint, sending headers on the
	// websocket handshake.
	Connect(ctx context.Context, endpoint string, headers map[string]string) (Browser, error)
}

// Browser is a live CDP connection.
type Browser interface {
	// Page returns the page to drive, reusing an existing one when the
	// remote browser already has one open.
	Page(ctx context.Context) (Page, error)

	// Close disconnects from the remote browser.
	Close() error
}

// Page is the set of page operations the browsing actions need. An empty
// selector in Text means the whole body.
type Page interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	Title(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Text(ctx context.Context, selector string) (string, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	WaitFor(ctx context.Context, selector string, state WaitState) error
	GoBack(ctx context.Context) error
}
