package port

import (
	"context"

	"github.com/google/uuid"

	"insurevis/internal/domain"
)

// UserRepository defines the contract for portal account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}
