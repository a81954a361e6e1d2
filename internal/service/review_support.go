package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

const defaultStoreTimeout = 5 * time.Second

// ReviewOptions tunes the review engines.
type ReviewOptions struct {
	// StoreTimeout bounds every individual store call.
	StoreTimeout time.Duration
	// BulkConcurrency bounds concurrent document updates in a batch verification.
	BulkConcurrency int
	// SweepBatchSize is the page size used when scanning claims for reconciliation.
	SweepBatchSize int
}

func (o ReviewOptions) storeTimeout() time.Duration {
	if o.StoreTimeout <= 0 {
		return defaultStoreTimeout
	}
	return o.StoreTimeout
}

func (o ReviewOptions) bulkConcurrency() int {
	if o.BulkConcurrency < 1 {
		return 1
	}
	return o.BulkConcurrency
}

func (o ReviewOptions) sweepBatchSize() int {
	if o.SweepBatchSize < 1 {
		return 100
	}
	return o.SweepBatchSize
}

// storeCall runs fn under the store deadline. Failures that are not business
// errors (timeouts, driver errors) come back as *domain.TransientError.
func storeCall[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	v, err := fn(callCtx)
	if err != nil {
		return v, domain.NewTransientError(op, err)
	}
	return v, nil
}

// reviewRecorder writes the audit trail and publishes review events. Both are
// best-effort: failures are logged and never fail the operation.
type reviewRecorder struct {
	auditRepo port.ClaimAuditRepository
	events    port.EventPublisher
	timeout   time.Duration
}

func newReviewRecorder(auditRepo port.ClaimAuditRepository, events port.EventPublisher, timeout time.Duration) *reviewRecorder {
	return &reviewRecorder{auditRepo: auditRepo, events: events, timeout: timeout}
}

func (r *reviewRecorder) audit(ctx context.Context, claimID uuid.UUID, docID, userID *uuid.UUID, action domain.AuditAction, changes map[string]any) {
	if r == nil || r.auditRepo == nil {
		return
	}
	raw := json.RawMessage("{}")
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			raw = b
		}
	}
	entry := &domain.ClaimAuditEntry{
		ID:         uuid.New(),
		ClaimID:    claimID,
		DocumentID: docID,
		UserID:     userID,
		Action:     action,
		Changes:    raw,
	}
	auditCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.auditRepo.Create(auditCtx, entry); err != nil {
		slog.Error("reviewRecorder.audit: failed to write audit entry",
			"action", action, "claim_id", claimID, "error", err)
	}
}

func (r *reviewRecorder) publish(ctx context.Context, event domain.ReviewEvent) {
	if r == nil || r.events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	pubCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.events.Publish(pubCtx, event); err != nil {
		slog.Warn("reviewRecorder.publish: event not delivered",
			"type", event.Type, "claim_id", event.ClaimID, "error", err)
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
