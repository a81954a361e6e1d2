package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insurevis/internal/domain"
	"insurevis/internal/service"
	"insurevis/mocks"
)

func newReconciliationService() (service.ReconciliationService, *mocks.MockClaimRepo, *mocks.MockDocumentRepo, *mocks.MockClaimAuditRepo) {
	claimRepo := new(mocks.MockClaimRepo)
	docRepo := new(mocks.MockDocumentRepo)
	auditRepo := new(mocks.MockClaimAuditRepo)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := service.NewReconciliationService(claimRepo, docRepo, auditRepo, nil,
		service.ReviewOptions{StoreTimeout: time.Second, BulkConcurrency: 2, SweepBatchSize: 2})
	return svc, claimRepo, docRepo, auditRepo
}

func approvedByCar(claim *domain.Claim) {
	now := time.Now()
	actor := uuid.New()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	claim.CarCompanyDecidedBy = &actor
}

func TestReconciliationService_ReconcileClaim_DemotesInconsistentApproval(t *testing.T) {
	svc, claimRepo, docRepo, auditRepo := newReconciliationService()
	claim := reviewClaim()
	approvedByCar(claim)
	docs := []domain.Document{verifiedDoc(claim.ID, domain.DocTypeStencilStrips, false, false)}
	claimRepo.On("GetByID", mock.Anything, claim.ID).Return(claim, nil)
	docRepo.On("ListByClaim", mock.Anything, claim.ID).Return(docs, nil)
	claimRepo.On("ClearRoleApproval", mock.Anything, claim.ID, domain.RoleCarCompany).Return(true, nil)

	actions, err := svc.ReconcileClaim(context.Background(), claim.ID)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].Applied)
	assert.Equal(t, []uuid.UUID{docs[0].ID}, actions[0].UnverifiedDocumentIDs)
	claimRepo.AssertExpectations(t)
	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.ClaimAuditEntry) bool {
		return e.Action == domain.AuditReconciliationConflict && e.UserID == nil
	}))
}

func TestReconciliationService_ReconcileClaim_AlreadyCleared(t *testing.T) {
	svc, claimRepo, docRepo, auditRepo := newReconciliationService()
	claim := reviewClaim()
	approvedByCar(claim)
	claimRepo.On("GetByID", mock.Anything, claim.ID).Return(claim, nil)
	docRepo.On("ListByClaim", mock.Anything, claim.ID).Return([]domain.Document{}, nil)
	claimRepo.On("ClearRoleApproval", mock.Anything, claim.ID, domain.RoleCarCompany).Return(false, nil)

	actions, err := svc.ReconcileClaim(context.Background(), claim.ID)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.False(t, actions[0].Applied)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReconciliationService_ReconcileClaim_AdvisoryOnFinalClaim(t *testing.T) {
	svc, claimRepo, docRepo, _ := newReconciliationService()
	claim := reviewClaim()
	claim.Status = domain.ClaimStatusRejected
	approvedByCar(claim)
	claimRepo.On("GetByID", mock.Anything, claim.ID).Return(claim, nil)
	docRepo.On("ListByClaim", mock.Anything, claim.ID).Return([]domain.Document{
		verifiedDoc(claim.ID, domain.DocTypeJobEstimate, false, false),
	}, nil)

	actions, err := svc.ReconcileClaim(context.Background(), claim.ID)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].Advisory)
	assert.False(t, actions[0].Applied)
	claimRepo.AssertNotCalled(t, "ClearRoleApproval", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliationService_ReconcileClaim_StoreFailure(t *testing.T) {
	svc, claimRepo, _, _ := newReconciliationService()
	id := uuid.New()
	claimRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("timeout"))

	_, err := svc.ReconcileClaim(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestReconciliationService_Sweep(t *testing.T) {
	svc, claimRepo, docRepo, _ := newReconciliationService()
	inconsistent := reviewClaim()
	approvedByCar(inconsistent)
	consistent := reviewClaim()
	approvedByCar(consistent)
	broken := reviewClaim()

	filter := domain.ClaimFilter{PendingReconciliation: true}
	claimRepo.On("List", mock.Anything, filter, 0, 2).Return([]domain.ClaimListRow{
		{Claim: *inconsistent}, {Claim: *consistent},
	}, 3, nil)
	claimRepo.On("List", mock.Anything, filter, 2, 2).Return([]domain.ClaimListRow{{Claim: *broken}}, 3, nil)

	claimRepo.On("GetByID", mock.Anything, inconsistent.ID).Return(inconsistent, nil)
	docRepo.On("ListByClaim", mock.Anything, inconsistent.ID).Return([]domain.Document{
		verifiedDoc(inconsistent.ID, domain.DocTypeJobEstimate, false, false),
	}, nil)
	claimRepo.On("ClearRoleApproval", mock.Anything, inconsistent.ID, domain.RoleCarCompany).Return(true, nil)

	claimRepo.On("GetByID", mock.Anything, consistent.ID).Return(consistent, nil)
	docRepo.On("ListByClaim", mock.Anything, consistent.ID).Return([]domain.Document{
		verifiedDoc(consistent.ID, domain.DocTypeJobEstimate, true, false),
	}, nil)

	claimRepo.On("GetByID", mock.Anything, broken.ID).Return(nil, errors.New("connection refused"))

	result, err := svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &service.SweepResult{Scanned: 3, Demoted: 1, Failed: 1}, result)
}

func TestReconciliationService_Sweep_ListFailure(t *testing.T) {
	svc, claimRepo, _, _ := newReconciliationService()
	claimRepo.On("List", mock.Anything, mock.Anything, 0, 2).Return(nil, 0, errors.New("db down"))

	_, err := svc.Sweep(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransient)
}
