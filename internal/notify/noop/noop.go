package noop

import (
	"context"
	"log/slog"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

type noopNotifier struct{}

// NewNotifier creates a Notifier that only logs what it would have sent.
func NewNotifier() port.Notifier {
	return noopNotifier{}
}

func (noopNotifier) Name() string { return "noop" }

func (noopNotifier) Notify(_ context.Context, n domain.Notification) domain.DeliveryResult {
	slog.Info("[NOOP NOTIFY] claim notification",
		"user_id", n.TargetUserID, "claim_id", n.ClaimID, "title", n.Title, "status", n.Tag)
	return domain.DeliveryResult{OK: true}
}
