package remote

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// fakeClient counts opens and closes and records the close context state.
type fakeClient struct {
	mu          sync.Mutex
	opened      int
	closed      int
	openErr     error
	closeErr    error
	lifetime    time.Duration
	closeCtxErr error
}

func (f *fakeClient) Open(_ context.Context, region string) (*SessionHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	h := &SessionHandle{
		ID:       fmt.Sprintf("sess-%d", f.opened),
		Region:   region,
		Endpoint: "wss://example.invalid/automation",
		Headers:  http.Header{"Authorization": {"AWS4-HMAC-SHA256 test"}},
	}
	if f.lifetime > 0 {
		h.ExpiresAt = time.Now().Add(f.lifetime)
	}
	return h, nil
}

func (f *fakeClient) Close(ctx context.Context, _ *SessionHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	f.closeCtxErr = ctx.Err()
	return f.closeErr
}
