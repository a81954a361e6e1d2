package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"insurevis/internal/domain"
)

// MockClaimRepo is a mock implementation of port.ClaimRepository.
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) GetByID(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimRepo) List(ctx context.Context, filter domain.ClaimFilter, offset, limit int) ([]domain.ClaimListRow, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimListRow), args.Int(1), args.Error(2)
}

func (m *MockClaimRepo) UpdateDecision(ctx context.Context, claim *domain.Claim, role domain.UserRole) error {
	args := m.Called(ctx, claim, role)
	return args.Error(0)
}

func (m *MockClaimRepo) ClearRoleApproval(ctx context.Context, claimID uuid.UUID, role domain.UserRole) (bool, error) {
	args := m.Called(ctx, claimID, role)
	return args.Bool(0), args.Error(1)
}
