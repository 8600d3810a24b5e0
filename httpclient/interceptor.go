package httpclient

import (
	"context"
	"sync"
)

// Handler transforms a request configuration or a response. Returning
// (nil, nil) leaves the value unchanged.
type Handler[T any] func(ctx context.Context, v *T) (*T, error)

// RejectHandler observes a failure and returns the error to propagate.
// Returning nil propagates the error it received.
type RejectHandler func(ctx context.Context, err error) error

type interceptor[T any] struct {
	id          int
	onFulfilled Handler[T]
	onRejected  RejectHandler
}

// Chain is an ordered list of interceptor pairs. Handlers run in
// registration order. Registration is safe for concurrent use; calls that
// are already running keep the handlers they started with.
type Chain[T any] struct {
	mu     sync.RWMutex
	nextID int
	items  []interceptor[T]
}

// Use appends an interceptor pair and returns its id for Eject.
// Either handler may be nil.
func (c *Chain[T]) Use(onFulfilled Handler[T], onRejected RejectHandler) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.items = append(c.items, interceptor[T]{id: c.nextID, onFulfilled: onFulfilled, onRejected: onRejected})
	return c.nextID
}

// Eject removes the interceptor registered under id.
func (c *Chain[T]) Eject(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.id == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered interceptors.
func (c *Chain[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Chain[T]) snapshot() []interceptor[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]interceptor[T], len(c.items))
	copy(out, c.items)
	return out
}

// run threads v through the fulfillment handlers of items. The first
// handler error stops the chain; the failing pair's rejection handler, if
// any, decides the error that is returned.
func run[T any](ctx context.Context, items []interceptor[T], v *T) (*T, error) {
	for _, it := range items {
		if it.onFulfilled == nil {
			continue
		}
		next, err := it.onFulfilled(ctx, v)
		if err != nil {
			if it.onRejected != nil {
				if rerr := it.onRejected(ctx, err); rerr != nil {
					return nil, rerr
				}
			}
			return nil, err
		}
		if next != nil {
			v = next
		}
	}
	return v, nil
}

// reject passes err through every rejection handler of items in order,
// each receiving the previous handler's output.
func reject[T any](ctx context.Context, items []interceptor[T], err error) error {
	for _, it := range items {
		if it.onRejected == nil {
			continue
		}
		if rerr := it.onRejected(ctx, err); rerr != nil {
			err = rerr
		}
	}
	return err
}

// Interceptors holds the request and response chains of a Client.
type Interceptors struct {
	Request  Chain[Config]
	Response Chain[Response]
}
