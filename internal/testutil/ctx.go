// internal/testutil/ctx.go
package testutil

import (
	"context"
	"time"
)

// TestContext returns a context with a generous timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
