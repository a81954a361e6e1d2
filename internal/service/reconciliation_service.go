package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

// SweepResult summarizes one reconciliation pass over the claim table.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Demoted int `json:"demoted"`
	Failed  int `json:"failed"`
}

// ReconciliationService repairs role approvals that are inconsistent with
// their documents or were not produced by an explicit decision.
type ReconciliationService interface {
	// ReconcileClaim reads the claim and its documents fresh and demotes any
	// inconsistent approval. It returns every detected action, applied or advisory.
	ReconcileClaim(ctx context.Context, claimID uuid.UUID) ([]domain.ReconciliationAction, error)
	// Sweep reconciles every non-final claim that has an approved role.
	Sweep(ctx context.Context) (*SweepResult, error)
}

type reconciliationService struct {
	claimRepo port.ClaimRepository
	docRepo   port.DocumentRepository
	recorder  *reviewRecorder
	opts      ReviewOptions
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	claimRepo port.ClaimRepository,
	docRepo port.DocumentRepository,
	auditRepo port.ClaimAuditRepository,
	events port.EventPublisher,
	opts ReviewOptions,
) ReconciliationService {
	return &reconciliationService{
		claimRepo: claimRepo,
		docRepo:   docRepo,
		recorder:  newReviewRecorder(auditRepo, events, opts.storeTimeout()),
		opts:      opts,
	}
}

func (s *reconciliationService) ReconcileClaim(ctx context.Context, claimID uuid.UUID) ([]domain.ReconciliationAction, error) {
	timeout := s.opts.storeTimeout()
	claim, err := storeCall(ctx, timeout, "reloading claim", func(ctx context.Context) (*domain.Claim, error) {
		return s.claimRepo.GetByID(ctx, claimID)
	})
	if err != nil {
		return nil, err
	}
	docs, err := storeCall(ctx, timeout, "reloading claim documents", func(ctx context.Context) ([]domain.Document, error) {
		return s.docRepo.ListByClaim(ctx, claimID)
	})
	if err != nil {
		return nil, err
	}

	actions := domain.Reconcile(claim, docs)
	for i := range actions {
		action := actions[i]
		log := slog.With("claim_id", claimID, "role", action.Role, "reason", action.Reason)
		if action.Advisory {
			log.Warn("reconciliationService.ReconcileClaim: inconsistent approval on final claim left in place",
				"status", claim.Status)
			continue
		}

		demoted, err := storeCall(ctx, timeout, "demoting role approval", func(ctx context.Context) (bool, error) {
			return s.claimRepo.ClearRoleApproval(ctx, claimID, action.Role)
		})
		if err != nil {
			return actions, err
		}
		if !demoted {
			log.Debug("reconciliationService.ReconcileClaim: approval already cleared")
			continue
		}
		actions[i].Applied = true

		log.Warn("reconciliationService.ReconcileClaim: reconciliation conflict, approval demoted to pending",
			"unverified_documents", len(action.UnverifiedDocumentIDs))
		changes := map[string]any{
			"role":                    action.Role,
			"reason":                  action.Reason,
			"unverified_document_ids": action.UnverifiedDocumentIDs,
			"status":                  domain.RoleStatusPending,
		}
		s.recorder.audit(ctx, claimID, nil, nil, domain.AuditReconciliationConflict, changes)
		s.recorder.publish(ctx, domain.ReviewEvent{
			Type:    domain.EventClaimReconciled,
			ClaimID: claimID,
			Role:    action.Role,
			Data:    changes,
		})
	}
	return actions, nil
}

func (s *reconciliationService) Sweep(ctx context.Context) (*SweepResult, error) {
	// Collect ids first: demoted claims drop out of the filter, which would
	// shift offset-based pages.
	var ids []uuid.UUID
	batch := s.opts.sweepBatchSize()
	filter := domain.ClaimFilter{PendingReconciliation: true}
	for offset := 0; ; offset += batch {
		rows, err := storeCall(ctx, s.opts.storeTimeout(), "listing claims for reconciliation",
			func(ctx context.Context) ([]domain.ClaimListRow, error) {
				rows, _, err := s.claimRepo.List(ctx, filter, offset, batch)
				return rows, err
			})
		if err != nil {
			return nil, err
		}
		for i := range rows {
			ids = append(ids, rows[i].ID)
		}
		if len(rows) < batch {
			break
		}
	}

	result := &SweepResult{Scanned: len(ids)}
	var demoted, failed atomic.Int64

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.bulkConcurrency())
	for _, id := range ids {
		eg.Go(func() error {
			actions, err := s.ReconcileClaim(gctx, id)
			if err != nil {
				failed.Add(1)
				slog.Error("reconciliationService.Sweep: claim not reconciled", "claim_id", id, "error", err)
				return nil
			}
			for _, a := range actions {
				if a.Applied {
					demoted.Add(1)
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	result.Demoted = int(demoted.Load())
	result.Failed = int(failed.Load())
	return result, nil
}
