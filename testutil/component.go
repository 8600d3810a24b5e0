package testutil

import "context"

// TestComponent is a lifecycle-managed test dependency.
// Reset restores the component to its initial state between test cases.
type TestComponent interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Reset(ctx context.Context) error
}
