package noop

import (
	"context"
	"log/slog"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

type noopPublisher struct{}

// NewPublisher creates an EventPublisher that only logs events at debug level.
func NewPublisher() port.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(_ context.Context, ev domain.ReviewEvent) error {
	slog.Debug("[NOOP EVENT] review event", "type", ev.Type, "claim_id", ev.ClaimID, "role", ev.Role)
	return nil
}
