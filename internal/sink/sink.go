// Package sink defines outbound notification backends.
package sink

import "context"

// Sink delivers one plain-text notification message. Delivery is
// fire-and-forget from the run's point of view: the orchestrator logs a
// failure and moves on, it never retries or aborts.
type Sink interface {
	Send(ctx context.Context, message string) error
}
