package port

import (
	"context"

	"github.com/google/uuid"

	"insurevis/internal/domain"
)

// ClaimRepository defines the contract for claim persistence.
type ClaimRepository interface {
	GetByID(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error)
	List(ctx context.Context, filter domain.ClaimFilter, offset, limit int) ([]domain.ClaimListRow, int, error)
	// UpdateDecision atomically writes the overall status, role's track and the
	// approval/rejection timestamps of claim. The other role's track is untouched.
	UpdateDecision(ctx context.Context, claim *domain.Claim, role domain.UserRole) error
	// ClearRoleApproval resets role's track to pending only if it is currently
	// approved. It reports whether a row changed.
	ClearRoleApproval(ctx context.Context, claimID uuid.UUID, role domain.UserRole) (bool, error)
}

// ClaimAuditRepository defines the contract for the claim audit trail.
type ClaimAuditRepository interface {
	Create(ctx context.Context, entry *domain.ClaimAuditEntry) error
	ListByClaim(ctx context.Context, claimID uuid.UUID, offset, limit int) ([]domain.ClaimAuditEntry, int, error)
}
