package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

// SetVerificationInput is the DTO for verifying or un-verifying one document.
type SetVerificationInput struct {
	DocumentID uuid.UUID
	// ClaimID, when set, must match the document's claim.
	ClaimID  uuid.UUID
	Role     domain.UserRole
	Verified bool
	ActorID  uuid.UUID
}

// RejectDocumentInput is the DTO for rejecting one document.
type RejectDocumentInput struct {
	DocumentID   uuid.UUID
	Role         domain.UserRole
	ReasonCode   domain.RejectionReasonCode
	CustomReason string
	ActorID      uuid.UUID
}

// BatchVerificationInput is the DTO for verifying several documents of one claim.
type BatchVerificationInput struct {
	ClaimID     uuid.UUID
	Role        domain.UserRole
	DocumentIDs []uuid.UUID
	Verified    bool
	ActorID     uuid.UUID
}

// VerificationService applies a reviewer's verdict to claim documents.
type VerificationService interface {
	SetVerification(ctx context.Context, input *SetVerificationInput) (*domain.Document, error)
	RejectDocument(ctx context.Context, input *RejectDocumentInput) (*domain.Document, error)
	VerifyDocuments(ctx context.Context, input *BatchVerificationInput) ([]*domain.Document, error)
}

type verificationService struct {
	docRepo    port.DocumentRepository
	claimRepo  port.ClaimRepository
	reconciler ReconciliationService
	recorder   *reviewRecorder
	opts       ReviewOptions
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(
	docRepo port.DocumentRepository,
	claimRepo port.ClaimRepository,
	auditRepo port.ClaimAuditRepository,
	events port.EventPublisher,
	reconciler ReconciliationService,
	opts ReviewOptions,
) VerificationService {
	return &verificationService{
		docRepo:    docRepo,
		claimRepo:  claimRepo,
		reconciler: reconciler,
		recorder:   newReviewRecorder(auditRepo, events, opts.storeTimeout()),
		opts:       opts,
	}
}

func (s *verificationService) SetVerification(ctx context.Context, input *SetVerificationInput) (*domain.Document, error) {
	doc, claim, err := s.loadForReview(ctx, input.DocumentID, input.Role)
	if err != nil {
		return nil, err
	}
	if input.ClaimID != uuid.Nil && doc.ClaimID != input.ClaimID {
		return nil, domain.ErrDocumentNotFound
	}

	current := doc.Verification(input.Role)
	var next domain.Verification
	if input.Verified {
		if current.Verified && current.RejectionReason == nil {
			return doc, nil
		}
		now := time.Now().UTC()
		next = domain.Verification{Verified: true, VerifiedAt: &now}
	} else {
		if !current.Verified && current.VerifiedAt == nil {
			s.cascade(ctx, claim, doc, input.Role, input.ActorID)
			return doc, nil
		}
		// Un-verifying is not a rejection; any earlier reason stays.
		next = domain.Verification{RejectionReason: current.RejectionReason}
	}

	action, eventType := domain.AuditDocumentVerified, domain.EventDocumentVerified
	if !input.Verified {
		action = domain.AuditDocumentUnverified
	}
	if err := s.persist(ctx, doc, claim, input.Role, next, input.ActorID, action, eventType); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *verificationService) RejectDocument(ctx context.Context, input *RejectDocumentInput) (*domain.Document, error) {
	reason, err := domain.FormatRejectionReason(input.ReasonCode, input.CustomReason)
	if err != nil {
		return nil, err
	}
	doc, claim, err := s.loadForReview(ctx, input.DocumentID, input.Role)
	if err != nil {
		return nil, err
	}

	current := doc.Verification(input.Role)
	if current.Rejected() && current.VerifiedAt == nil && *current.RejectionReason == reason {
		s.cascade(ctx, claim, doc, input.Role, input.ActorID)
		return doc, nil
	}
	next := domain.Verification{RejectionReason: &reason}
	if err := s.persist(ctx, doc, claim, input.Role, next, input.ActorID,
		domain.AuditDocumentRejected, domain.EventDocumentRejected); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *verificationService) VerifyDocuments(ctx context.Context, input *BatchVerificationInput) ([]*domain.Document, error) {
	if !input.Role.IsReviewer() {
		return nil, domain.ErrInvalidRole
	}
	results := make([]*domain.Document, len(input.DocumentIDs))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.bulkConcurrency())
	for i, docID := range input.DocumentIDs {
		eg.Go(func() error {
			doc, err := s.SetVerification(gctx, &SetVerificationInput{
				DocumentID: docID,
				ClaimID:    input.ClaimID,
				Role:       input.Role,
				Verified:   input.Verified,
				ActorID:    input.ActorID,
			})
			if err != nil {
				return fmt.Errorf("document %s: %w", docID, err)
			}
			results[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// loadForReview fetches a document and its claim, and checks that role may
// still change the document's verdict.
func (s *verificationService) loadForReview(ctx context.Context, docID uuid.UUID, role domain.UserRole) (*domain.Document, *domain.Claim, error) {
	if !role.IsReviewer() {
		return nil, nil, domain.ErrInvalidRole
	}
	timeout := s.opts.storeTimeout()
	doc, err := storeCall(ctx, timeout, "loading document", func(ctx context.Context) (*domain.Document, error) {
		return s.docRepo.GetByID(ctx, docID)
	})
	if err != nil {
		return nil, nil, err
	}
	if !role.CanVerify(doc.Type) {
		return nil, nil, fmt.Errorf("%w: %s cannot review %s", domain.ErrInvalidRole, role, doc.Type)
	}
	claim, err := storeCall(ctx, timeout, "loading claim", func(ctx context.Context) (*domain.Claim, error) {
		return s.claimRepo.GetByID(ctx, doc.ClaimID)
	})
	if err != nil {
		return nil, nil, err
	}
	if claim.Status.IsTerminal() || claim.Review(role).Status == domain.RoleStatusRejected {
		return nil, nil, domain.ErrClaimLocked
	}
	return doc, claim, nil
}

// persist writes the new verdict, records it, clears a now-invalid role
// approval and re-runs reconciliation. Only the verdict write can fail the call.
func (s *verificationService) persist(
	ctx context.Context,
	doc *domain.Document,
	claim *domain.Claim,
	role domain.UserRole,
	next domain.Verification,
	actorID uuid.UUID,
	action domain.AuditAction,
	eventType string,
) error {
	prev := doc.Verification(role)
	doc.SetVerification(role, next)
	_, err := storeCall(ctx, s.opts.storeTimeout(), "updating document verification", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.docRepo.UpdateVerification(ctx, doc, role)
	})
	if err != nil {
		doc.SetVerification(role, prev)
		return err
	}

	changes := map[string]any{
		"role":             role,
		"verified":         next.Verified,
		"rejection_reason": next.RejectionReason,
	}
	s.recorder.audit(ctx, claim.ID, &doc.ID, uuidPtr(actorID), action, changes)
	s.recorder.publish(ctx, domain.ReviewEvent{
		Type:       eventType,
		ClaimID:    claim.ID,
		DocumentID: &doc.ID,
		Role:       role,
		ActorID:    uuidPtr(actorID),
		Data:       changes,
	})

	if !next.Verified {
		s.cascade(ctx, claim, doc, role, actorID)
		return nil
	}
	s.reconcile(ctx, claim, doc)
	return nil
}

// cascade clears the role's approval when doc is no longer verified for it,
// then re-runs reconciliation. An unchanged unverified document still cascades
// so an approval written behind its back gets repaired.
func (s *verificationService) cascade(ctx context.Context, claim *domain.Claim, doc *domain.Document, role domain.UserRole, actorID uuid.UUID) {
	if claim.Review(role).Status == domain.RoleStatusApproved {
		s.clearApproval(ctx, claim, doc, role, actorID)
	}
	s.reconcile(ctx, claim, doc)
}

func (s *verificationService) reconcile(ctx context.Context, claim *domain.Claim, doc *domain.Document) {
	if s.reconciler != nil {
		if _, err := s.reconciler.ReconcileClaim(ctx, claim.ID); err != nil {
			slog.Warn("verificationService: reconciliation after document update failed",
				"claim_id", claim.ID, "document_id", doc.ID, "error", err)
		}
	}
}

// clearApproval is the un-approval cascade: a role cannot stay approved once
// one of its documents loses verification.
func (s *verificationService) clearApproval(ctx context.Context, claim *domain.Claim, doc *domain.Document, role domain.UserRole, actorID uuid.UUID) {
	cleared, err := storeCall(ctx, s.opts.storeTimeout(), "clearing role approval", func(ctx context.Context) (bool, error) {
		return s.claimRepo.ClearRoleApproval(ctx, claim.ID, role)
	})
	if err != nil {
		slog.Error("verificationService.clearApproval: failed, leaving it to reconciliation",
			"claim_id", claim.ID, "role", role, "error", err)
		return
	}
	if !cleared {
		return
	}
	claim.SetReview(role, domain.RoleReview{Status: domain.RoleStatusPending, Notes: claim.Review(role).Notes})
	slog.Info("verificationService.clearApproval: role approval cleared",
		"claim_id", claim.ID, "role", role, "document_id", doc.ID)
	s.recorder.audit(ctx, claim.ID, &doc.ID, uuidPtr(actorID), domain.AuditApprovalCascadeCleared,
		map[string]any{"role": role, "status": domain.RoleStatusPending})
}
