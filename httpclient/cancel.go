package httpclient

import (
	"context"
	"sync"
)

const defaultCancelReason = "Request canceled"

// CancelToken aborts every in-flight request whose Config carries it.
// The first call to Cancel wins; later calls have no effect.
// A CancelToken is safe for concurrent use. The zero value is ready to use.
type CancelToken struct {
	ctx      context.Context
	cancel   context.CancelFunc
	initOnce sync.Once
	once     sync.Once

	mu     sync.Mutex
	reason string
}

// NewCancelToken returns a token that has not been canceled.
func NewCancelToken() *CancelToken {
	t := &CancelToken{}
	t.init()
	return t
}

func (t *CancelToken) init() {
	t.initOnce.Do(func() {
		t.ctx, t.cancel = context.WithCancel(context.Background())
	})
}

// Cancel records reason (defaulting to "Request canceled") and signals the token.
func (t *CancelToken) Cancel(reason string) {
	t.init()
	t.once.Do(func() {
		if reason == "" {
			reason = defaultCancelReason
		}
		t.mu.Lock()
		t.reason = reason
		t.mu.Unlock()
		t.cancel()
	})
}

// Signal returns a channel that is closed once the token is canceled.
func (t *CancelToken) Signal() <-chan struct{} {
	t.init()
	return t.ctx.Done()
}

// Context returns a context that is canceled together with the token.
func (t *CancelToken) Context() context.Context {
	t.init()
	return t.ctx
}

// IsCanceled reports whether Cancel has been called.
func (t *CancelToken) IsCanceled() bool {
	t.init()
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Reason returns the reason recorded by the first Cancel call, or "" before it.
func (t *CancelToken) Reason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}
