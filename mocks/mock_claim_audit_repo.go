package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"insurevis/internal/domain"
)

// MockClaimAuditRepo is a mock implementation of port.ClaimAuditRepository.
type MockClaimAuditRepo struct {
	mock.Mock
}

func (m *MockClaimAuditRepo) Create(ctx context.Context, entry *domain.ClaimAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockClaimAuditRepo) ListByClaim(ctx context.Context, claimID uuid.UUID, offset, limit int) ([]domain.ClaimAuditEntry, int, error) {
	args := m.Called(ctx, claimID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimAuditEntry), args.Int(1), args.Error(2)
}
