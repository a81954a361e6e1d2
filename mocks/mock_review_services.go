package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"insurevis/internal/domain"
	"insurevis/internal/export"
	"insurevis/internal/service"
)

// MockClaimService is a mock implementation of service.ClaimService.
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) ListForReviewer(ctx context.Context, input *service.ListClaimsInput) ([]domain.ClaimSummary, int, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimSummary), args.Int(1), args.Error(2)
}

func (m *MockClaimService) GetDetail(ctx context.Context, role domain.UserRole, claimID uuid.UUID) (*service.ClaimDetail, error) {
	args := m.Called(ctx, role, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClaimDetail), args.Error(1)
}

func (m *MockClaimService) Export(ctx context.Context, input *service.ListClaimsInput, format export.Format, w io.Writer) (int, error) {
	args := m.Called(ctx, input, format, w)
	return args.Int(0), args.Error(1)
}

func (m *MockClaimService) RejectionReasons() []service.RejectionReasonOption {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.RejectionReasonOption)
}

// MockVerificationService is a mock implementation of service.VerificationService.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) SetVerification(ctx context.Context, input *service.SetVerificationInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockVerificationService) RejectDocument(ctx context.Context, input *service.RejectDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockVerificationService) VerifyDocuments(ctx context.Context, input *service.BatchVerificationInput) ([]*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

// MockDecisionService is a mock implementation of service.DecisionService.
type MockDecisionService struct {
	mock.Mock
}

func (m *MockDecisionService) Decide(ctx context.Context, input *service.DecideInput) (*domain.Claim, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

// MockReconciliationService is a mock implementation of service.ReconciliationService.
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcileClaim(ctx context.Context, claimID uuid.UUID) ([]domain.ReconciliationAction, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationAction), args.Error(1)
}

func (m *MockReconciliationService) Sweep(ctx context.Context) (*service.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepResult), args.Error(1)
}

// MockDocumentAccessService is a mock implementation of service.DocumentAccessService.
type MockDocumentAccessService struct {
	mock.Mock
}

func (m *MockDocumentAccessService) GetURL(ctx context.Context, docID uuid.UUID) (*service.DocumentURL, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentURL), args.Error(1)
}

func (m *MockDocumentAccessService) GetContent(ctx context.Context, docID uuid.UUID) (*service.DocumentContent, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentContent), args.Error(1)
}
