package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSessionSuccess(t *testing.T) {
	client := &fakeClient{}

	var seen *SessionHandle
	err := WithSession(context.Background(), client, "us-west-2", func(_ context.Context, h *SessionHandle) error {
		seen = h
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, "us-west-2", seen.Region)
	assert.Equal(t, "AWS4-HMAC-SHA256 test", seen.HeaderMap()["Authorization"])
	assert.Equal(t, 1, client.opened)
	assert.Equal(t, 1, client.closed)
}

func TestWithSessionWorkFails(t *testing.T) {
	client := &fakeClient{}
	cause := errors.New("driver attach failed")

	err := WithSession(context.Background(), client, "us-west-2", func(context.Context, *SessionHandle) error {
		return cause
	})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, client.opened, client.closed)
}

func TestWithSessionPanic(t *testing.T) {
	client := &fakeClient{}

	assert.Panics(t, func() {
		_ = WithSession(context.Background(), client, "us-west-2", func(context.Context, *SessionHandle) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, client.closed)
}

func TestWithSessionCancelledCallerStillReleases(t *testing.T) {
	client := &fakeClient{}
	ctx, cancel := context.WithCancel(context.Background())

	err := WithSession(ctx, client, "us-west-2", func(ctx context.Context, _ *SessionHandle) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, client.closed)
	assert.NoError(t, client.closeCtxErr, "release runs on a detached context")
}

func TestWithSessionExpired(t *testing.T) {
	client := &fakeClient{lifetime: 20 * time.Millisecond}

	err := WithSession(context.Background(), client, "us-west-2", func(ctx context.Context, _ *SessionHandle) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, client.closed)
}

func TestWithSessionOpenFails(t *testing.T) {
	client := &fakeClient{openErr: errors.New("quota exceeded")}

	called := false
	err := WithSession(context.Background(), client, "us-west-2", func(context.Context, *SessionHandle) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.False(t, called)
	assert.Zero(t, client.closed)
}

func TestWithSessionReleaseFailureKeepsResult(t *testing.T) {
	client := &fakeClient{closeErr: errors.New("stop failed")}

	err := WithSession(context.Background(), client, "us-west-2", func(context.Context, *SessionHandle) error {
		return nil
	}, WithReleaseTimeout(time.Second))
	assert.NoError(t, err)
	assert.Equal(t, 1, client.closed)
}
