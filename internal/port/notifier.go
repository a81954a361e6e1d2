package port

import (
	"context"

	"insurevis/internal/domain"
)

// Notifier delivers a notification over one channel (push, email, ...).
// Implementations never return an error; failures are reported in the result.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n domain.Notification) domain.DeliveryResult
}

// EventPublisher publishes review transitions to external subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReviewEvent) error
}
