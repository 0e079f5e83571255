package ports

import (
	"context"

	"dispatch/internal/pkg/bus"
)

// EventPublisher fans domain events out to interested adapters. Handlers
// publish after their transaction commits; delivery is best-effort and must
// never affect the outcome of the command.
type EventPublisher interface {
	Publish(ctx context.Context, event bus.Event)
}
