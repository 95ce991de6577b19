// Package remote leases remotely hosted browser sessions and yields the
// coordinates a CDP driver needs to attach to them.
package remote

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/logging"
)

var remoteLog = logging.NewLogger("remote")

// ErrSessionExpired is returned when work inside a session outlives the
// session's maximum lifetime.
var ErrSessionExpired = errors.New("browser session expired")

// SessionHandle is a live lease on a remote browser.
type SessionHandle struct {
	ID        string
	BrowserID string
	Region    string

	// Endpoint is the CDP WebSocket URL of the automation stream.
	Endpoint string

	// Headers authenticate the WebSocket upgrade request.
	Headers http.Header

	// ExpiresAt is when the remote side ends the session. Zero means no
	// local deadline is enforced.
	ExpiresAt time.Time
}

// HeaderMap flattens Headers for drivers that take a plain map.
func (h *SessionHandle) HeaderMap() map[string]string {
	out := make(map[string]string, len(h.Headers))
	for k, v := range h.Headers {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Client opens and closes remote browser sessions. Implementations must be
// safe for concurrent use.
type Client interface {
	// Open starts a session in region.
	Open(ctx context.Context, region string) (*SessionHandle, error)

	// Close ends the session. Closing a session that is already gone is
	// not an error.
	Close(ctx context.Context, handle *SessionHandle) error
}
