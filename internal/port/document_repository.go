package port

import (
	"context"

	"github.com/google/uuid"

	"insurevis/internal/domain"
)

// DocumentRepository defines the contract for claim document persistence.
// Documents are created by the upload pipeline; only verification fields are written here.
type DocumentRepository interface {
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Document, error)
	ListByClaimIDs(ctx context.Context, claimIDs []uuid.UUID) ([]domain.Document, error)
	// UpdateVerification atomically writes role's verification columns of doc.
	UpdateVerification(ctx context.Context, doc *domain.Document, role domain.UserRole) error
}
