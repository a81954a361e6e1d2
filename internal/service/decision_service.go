package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

// DecideInput is the DTO for a reviewer's claim-level decision.
type DecideInput struct {
	ClaimID  uuid.UUID
	Role     domain.UserRole
	Decision domain.Decision
	Notes    string
	ActorID  uuid.UUID
}

// NotificationQueue accepts notifications for asynchronous delivery.
type NotificationQueue interface {
	Enqueue(n domain.Notification) bool
}

// DecisionService applies claim-level approve, reject and hold decisions.
type DecisionService interface {
	Decide(ctx context.Context, input *DecideInput) (*domain.Claim, error)
}

type decisionService struct {
	claimRepo port.ClaimRepository
	docRepo   port.DocumentRepository
	notifier  NotificationQueue
	recorder  *reviewRecorder
	opts      ReviewOptions
}

// NewDecisionService creates a new DecisionService.
func NewDecisionService(
	claimRepo port.ClaimRepository,
	docRepo port.DocumentRepository,
	auditRepo port.ClaimAuditRepository,
	events port.EventPublisher,
	notifier NotificationQueue,
	opts ReviewOptions,
) DecisionService {
	return &decisionService{
		claimRepo: claimRepo,
		docRepo:   docRepo,
		notifier:  notifier,
		recorder:  newReviewRecorder(auditRepo, events, opts.storeTimeout()),
		opts:      opts,
	}
}

func (s *decisionService) Decide(ctx context.Context, input *DecideInput) (*domain.Claim, error) {
	if !input.Decision.IsValid() {
		return nil, domain.ErrInvalidDecision
	}
	if !input.Role.IsReviewer() {
		return nil, domain.ErrInvalidRole
	}
	notes := strings.TrimSpace(input.Notes)
	if input.Decision == domain.DecisionReject && notes == "" {
		return nil, domain.ErrMissingReason
	}

	timeout := s.opts.storeTimeout()
	claim, err := storeCall(ctx, timeout, "loading claim", func(ctx context.Context) (*domain.Claim, error) {
		return s.claimRepo.GetByID(ctx, input.ClaimID)
	})
	if err != nil {
		return nil, err
	}
	docs, err := storeCall(ctx, timeout, "loading claim documents", func(ctx context.Context) ([]domain.Document, error) {
		return s.docRepo.ListByClaim(ctx, claim.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := checkDecisionPreconditions(claim, docs, input.Role, input.Decision); err != nil {
		return nil, err
	}

	updated := applyDecision(*claim, input.Role, input.Decision, notes, input.ActorID, time.Now().UTC())
	_, err = storeCall(ctx, timeout, "saving claim decision", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.claimRepo.UpdateDecision(ctx, &updated, input.Role)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("decisionService.Decide: decision applied",
		"claim_id", updated.ID, "role", input.Role, "decision", input.Decision, "status", updated.Status)

	changes := map[string]any{
		"role":        input.Role,
		"decision":    input.Decision,
		"notes":       notes,
		"status":      updated.Status,
		"role_status": updated.Review(input.Role).Status,
	}
	s.recorder.audit(ctx, updated.ID, nil, uuidPtr(input.ActorID), domain.AuditClaimDecided, changes)
	s.recorder.publish(ctx, domain.ReviewEvent{
		Type:    domain.EventClaimDecided,
		ClaimID: updated.ID,
		Role:    input.Role,
		ActorID: uuidPtr(input.ActorID),
		Data:    changes,
	})

	if s.notifier != nil {
		n := domain.DecisionNotification(&updated, input.Role, input.Decision, notes)
		if !s.notifier.Enqueue(n) {
			slog.Warn("decisionService.Decide: owner notification dropped",
				"claim_id", updated.ID, "user_id", updated.UserID)
		}
	}
	return &updated, nil
}

// checkDecisionPreconditions enforces the state machine and document gating.
func checkDecisionPreconditions(claim *domain.Claim, docs []domain.Document, role domain.UserRole, decision domain.Decision) error {
	if claim.Status.IsTerminal() || claim.Review(role).Status.IsTerminal() {
		return domain.ErrClaimLocked
	}
	if claim.Status == domain.ClaimStatusDraft {
		return &domain.PreconditionError{Role: role, Reason: "claim has not been submitted"}
	}
	if upstream := domain.UpstreamRole(role); upstream != "" && !domain.IsEligibleForNextStage(claim, docs, role) {
		return &domain.PreconditionError{
			Role:        role,
			Reason:      "claim is not eligible for " + role.DisplayName() + " review",
			DocumentIDs: domain.UnverifiedQualifying(docs, upstream),
		}
	}
	if decision != domain.DecisionApprove {
		return nil
	}
	if len(domain.QualifyingDocuments(docs, role)) == 0 {
		return &domain.PreconditionError{Role: role, Reason: "claim has no documents to approve"}
	}
	if pending := domain.UnverifiedQualifying(docs, role); len(pending) > 0 {
		return &domain.PreconditionError{Role: role, Reason: "documents are not verified", DocumentIDs: pending}
	}
	return nil
}

// applyDecision returns a copy of claim with the decision's transitions applied.
func applyDecision(claim domain.Claim, role domain.UserRole, decision domain.Decision, notes string, actorID uuid.UUID, now time.Time) domain.Claim {
	review := claim.Review(role)
	if notes == "" {
		notes = review.Notes
	}
	switch decision {
	case domain.DecisionApprove:
		review = domain.RoleReview{Status: domain.RoleStatusApproved, DecidedBy: uuidPtr(actorID), DecidedAt: &now, Notes: notes}
		if role == domain.RoleInsuranceCompany {
			claim.Status = domain.ClaimStatusApproved
			claim.ApprovedAt = &now
		}
	case domain.DecisionReject:
		review = domain.RoleReview{Status: domain.RoleStatusRejected, DecidedBy: uuidPtr(actorID), DecidedAt: &now, Notes: notes}
		claim.Status = domain.ClaimStatusRejected
		claim.RejectedAt = &now
	case domain.DecisionHold:
		review.Notes = notes
		claim.Status = domain.ClaimStatusUnderReview
	}
	claim.SetReview(role, review)
	return claim
}
