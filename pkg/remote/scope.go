package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/telemetry"
)

// DefaultReleaseTimeout bounds the session release call.
const DefaultReleaseTimeout = 30 * time.Second

type scopeOptions struct {
	releaseTimeout time.Duration
}

// ScopeOption configures WithSession.
type ScopeOption func(*scopeOptions)

// WithReleaseTimeout bounds the detached release call.
func WithReleaseTimeout(d time.Duration) ScopeOption {
	return func(o *scopeOptions) {
		o.releaseTimeout = d
	}
}

// WithSession opens a session in region, runs fn with it, and closes it
// exactly once when fn returns or panics.
//
// fn receives a context that ends at the session's expiry; if fn fails
// because of that deadline the error wraps ErrSessionExpired. Release runs
// on a context detached from ctx's cancellation so a cancelled caller still
// frees the session. A failed release is logged and does not replace fn's
// result.
func WithSession(ctx context.Context, client Client, region string, fn func(context.Context, *SessionHandle) error, opts ...ScopeOption) (err error) {
	o := scopeOptions{releaseTimeout: DefaultReleaseTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	handle, err := client.Open(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to open browser session in %s: %w", region, err)
	}
	telemetry.SessionsOpened.Inc()
	telemetry.SessionsActive.Inc()
	remoteLog.Infof("Opened browser session %s in %s", handle.ID, region)

	var once sync.Once
	release := func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.releaseTimeout)
			defer cancel()

			closeErr := client.Close(releaseCtx, handle)
			telemetry.SessionsActive.Dec()
			telemetry.SessionsClosed.WithLabelValues(telemetry.Outcome(closeErr)).Inc()
			if closeErr != nil {
				remoteLog.Errorf("Failed to release browser session %s: %v", handle.ID, closeErr)
				return
			}
			remoteLog.Infof("Released browser session %s", handle.ID)
		})
	}
	defer release()

	sessCtx := ctx
	if !handle.ExpiresAt.IsZero() {
		var cancel context.CancelFunc
		sessCtx, cancel = context.WithDeadline(ctx, handle.ExpiresAt)
		defer cancel()
	}

	err = fn(sessCtx, handle)
	if err != nil && ctx.Err() == nil && errors.Is(sessCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: session %s: %w", ErrSessionExpired, handle.ID, err)
	}
	return err
}
