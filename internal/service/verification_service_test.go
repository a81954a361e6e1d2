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

type verificationFixture struct {
	svc        service.VerificationService
	docRepo    *mocks.MockDocumentRepo
	claimRepo  *mocks.MockClaimRepo
	auditRepo  *mocks.MockClaimAuditRepo
	events     *mocks.MockEventPublisher
	reconciler *mocks.MockReconciliationService
}

func newVerificationFixture() *verificationFixture {
	f := &verificationFixture{
		docRepo:    new(mocks.MockDocumentRepo),
		claimRepo:  new(mocks.MockClaimRepo),
		auditRepo:  new(mocks.MockClaimAuditRepo),
		events:     new(mocks.MockEventPublisher),
		reconciler: new(mocks.MockReconciliationService),
	}
	f.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.reconciler.On("ReconcileClaim", mock.Anything, mock.Anything).Return([]domain.ReconciliationAction{}, nil).Maybe()
	f.svc = service.NewVerificationService(f.docRepo, f.claimRepo, f.auditRepo, f.events, f.reconciler,
		service.ReviewOptions{StoreTimeout: time.Second, BulkConcurrency: 4})
	return f
}

func reviewClaim() *domain.Claim {
	return &domain.Claim{
		ID:                     uuid.New(),
		ClaimNumber:            "CLM-0001",
		UserID:                 uuid.New(),
		Status:                 domain.ClaimStatusUnderReview,
		CarCompanyStatus:       domain.RoleStatusPending,
		InsuranceCompanyStatus: domain.RoleStatusPending,
	}
}

func claimDoc(claimID uuid.UUID, t domain.DocumentType) *domain.Document {
	return &domain.Document{ID: uuid.New(), ClaimID: claimID, Type: t}
}

func (f *verificationFixture) expectLoad(doc *domain.Document, claim *domain.Claim) {
	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.claimRepo.On("GetByID", mock.Anything, claim.ID).Return(claim, nil)
}

func TestVerificationService_SetVerification_Verify(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	reason := "Document is expired"
	doc := claimDoc(claim.ID, domain.DocTypeDriversLicense)
	doc.CarCompanyRejectionReason = &reason
	f.expectLoad(doc, claim)
	f.docRepo.On("UpdateVerification", mock.Anything, doc, domain.RoleCarCompany).Return(nil)

	got, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		Verified:   true,
		ActorID:    uuid.New(),
	})

	require.NoError(t, err)
	assert.True(t, got.VerifiedByCarCompany)
	assert.NotNil(t, got.CarCompanyVerifiedAt)
	assert.Nil(t, got.CarCompanyRejectionReason)
	assert.False(t, got.VerifiedByInsuranceCompany)
	f.docRepo.AssertExpectations(t)
	f.reconciler.AssertCalled(t, "ReconcileClaim", mock.Anything, claim.ID)
	f.auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.ClaimAuditEntry) bool {
		return e.Action == domain.AuditDocumentVerified && *e.DocumentID == doc.ID
	}))
}

func TestVerificationService_SetVerification_Idempotent(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	now := time.Now()
	doc := claimDoc(claim.ID, domain.DocTypeDriversLicense)
	doc.VerifiedByCarCompany = true
	doc.CarCompanyVerifiedAt = &now
	f.expectLoad(doc, claim)

	got, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		Verified:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, &now, got.CarCompanyVerifiedAt)
	f.docRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
	f.auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerificationService_SetVerification_UnverifyCascadesApproval(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	now := time.Now()
	actor := uuid.New()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	claim.CarCompanyDecidedBy = &actor
	doc := claimDoc(claim.ID, domain.DocTypeStencilStrips)
	doc.VerifiedByCarCompany = true
	doc.CarCompanyVerifiedAt = &now
	f.expectLoad(doc, claim)
	f.docRepo.On("UpdateVerification", mock.Anything, doc, domain.RoleCarCompany).Return(nil)
	f.claimRepo.On("ClearRoleApproval", mock.Anything, claim.ID, domain.RoleCarCompany).Return(true, nil)

	got, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		Verified:   false,
		ActorID:    actor,
	})

	require.NoError(t, err)
	assert.False(t, got.VerifiedByCarCompany)
	assert.Nil(t, got.CarCompanyVerifiedAt)
	assert.Equal(t, domain.RoleStatusPending, claim.CarCompanyStatus)
	f.claimRepo.AssertExpectations(t)
	f.auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.ClaimAuditEntry) bool {
		return e.Action == domain.AuditApprovalCascadeCleared
	}))
}

func TestVerificationService_SetVerification_OutsideMandate(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	doc := claimDoc(claim.ID, domain.DocTypePoliceReport)
	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		Verified:   true,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	f.docRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationService_SetVerification_NonReviewer(t *testing.T) {
	f := newVerificationFixture()

	_, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: uuid.New(),
		Role:       domain.RoleAdmin,
		Verified:   true,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	f.docRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestVerificationService_SetVerification_LockedClaim(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	claim.Status = domain.ClaimStatusApproved
	doc := claimDoc(claim.ID, domain.DocTypePoliceReport)
	f.expectLoad(doc, claim)

	_, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleInsuranceCompany,
		Verified:   true,
	})

	assert.ErrorIs(t, err, domain.ErrClaimLocked)
}

func TestVerificationService_SetVerification_StoreFailureIsTransient(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	doc := claimDoc(claim.ID, domain.DocTypeJobEstimate)
	f.expectLoad(doc, claim)
	f.docRepo.On("UpdateVerification", mock.Anything, doc, domain.RoleCarCompany).Return(errors.New("connection reset"))

	_, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		Verified:   true,
	})

	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.False(t, doc.VerifiedByCarCompany)
	f.reconciler.AssertNotCalled(t, "ReconcileClaim", mock.Anything, mock.Anything)
}

func TestVerificationService_SetVerification_DocumentOnOtherClaim(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	doc := claimDoc(claim.ID, domain.DocTypeJobEstimate)
	f.expectLoad(doc, claim)

	_, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		ClaimID:    uuid.New(),
		Role:       domain.RoleCarCompany,
		Verified:   true,
	})

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestVerificationService_RejectDocument_Success(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	now := time.Now()
	doc := claimDoc(claim.ID, domain.DocTypeInsurancePolicy)
	doc.VerifiedByInsuranceCompany = true
	doc.InsuranceCompanyVerifiedAt = &now
	f.expectLoad(doc, claim)
	f.docRepo.On("UpdateVerification", mock.Anything, doc, domain.RoleInsuranceCompany).Return(nil)

	got, err := f.svc.RejectDocument(context.Background(), &service.RejectDocumentInput{
		DocumentID: doc.ID,
		Role:       domain.RoleInsuranceCompany,
		ReasonCode: domain.ReasonForged,
	})

	require.NoError(t, err)
	assert.False(t, got.VerifiedByInsuranceCompany)
	assert.Nil(t, got.InsuranceCompanyVerifiedAt)
	require.NotNil(t, got.InsuranceCompanyRejectionReason)
	assert.Equal(t, "Document appears to be forged", *got.InsuranceCompanyRejectionReason)
}

func TestVerificationService_RejectDocument_CascadesApproval(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	now := time.Now()
	actor := uuid.New()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	claim.CarCompanyDecidedBy = &actor
	claim.CarCompanyNotes = "all documents look fine"
	doc := claimDoc(claim.ID, domain.DocTypeDamagePhotos)
	doc.VerifiedByCarCompany = true
	doc.CarCompanyVerifiedAt = &now
	f.expectLoad(doc, claim)
	f.docRepo.On("UpdateVerification", mock.Anything, doc, domain.RoleCarCompany).Return(nil)
	f.claimRepo.On("ClearRoleApproval", mock.Anything, claim.ID, domain.RoleCarCompany).Return(true, nil)

	got, err := f.svc.RejectDocument(context.Background(), &service.RejectDocumentInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		ReasonCode: domain.ReasonExpired,
		ActorID:    actor,
	})

	require.NoError(t, err)
	assert.False(t, got.VerifiedByCarCompany)
	assert.Equal(t, domain.RoleStatusPending, claim.CarCompanyStatus)
	assert.Equal(t, "all documents look fine", claim.CarCompanyNotes)
	f.claimRepo.AssertCalled(t, "ClearRoleApproval", mock.Anything, claim.ID, domain.RoleCarCompany)
	f.reconciler.AssertCalled(t, "ReconcileClaim", mock.Anything, claim.ID)
	f.auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.ClaimAuditEntry) bool {
		return e.Action == domain.AuditApprovalCascadeCleared
	}))
}

func TestVerificationService_SetVerification_UnchangedUnverifyStillCascades(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	now := time.Now()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	doc := claimDoc(claim.ID, domain.DocTypeLTOOfficialReceipt)
	f.expectLoad(doc, claim)
	f.claimRepo.On("ClearRoleApproval", mock.Anything, claim.ID, domain.RoleCarCompany).Return(true, nil)

	_, err := f.svc.SetVerification(context.Background(), &service.SetVerificationInput{
		DocumentID: doc.ID,
		Role:       domain.RoleCarCompany,
		Verified:   false,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStatusPending, claim.CarCompanyStatus)
	f.docRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
	f.claimRepo.AssertExpectations(t)
	f.reconciler.AssertCalled(t, "ReconcileClaim", mock.Anything, claim.ID)
}

func TestVerificationService_RejectDocument_UnchangedRejectionStillCascades(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	now := time.Now()
	claim.InsuranceCompanyStatus = domain.RoleStatusApproved
	claim.InsuranceCompanyDecidedAt = &now
	reason := "Document is incomplete"
	doc := claimDoc(claim.ID, domain.DocTypePoliceReport)
	doc.InsuranceCompanyRejectionReason = &reason
	f.expectLoad(doc, claim)
	f.claimRepo.On("ClearRoleApproval", mock.Anything, claim.ID, domain.RoleInsuranceCompany).Return(false, nil)

	_, err := f.svc.RejectDocument(context.Background(), &service.RejectDocumentInput{
		DocumentID: doc.ID,
		Role:       domain.RoleInsuranceCompany,
		ReasonCode: domain.ReasonIncomplete,
	})

	require.NoError(t, err)
	f.docRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
	f.claimRepo.AssertExpectations(t)
	f.reconciler.AssertCalled(t, "ReconcileClaim", mock.Anything, claim.ID)
}

func TestVerificationService_RejectDocument_OtherNeedsText(t *testing.T) {
	f := newVerificationFixture()

	_, err := f.svc.RejectDocument(context.Background(), &service.RejectDocumentInput{
		DocumentID:   uuid.New(),
		Role:         domain.RoleCarCompany,
		ReasonCode:   domain.ReasonOther,
		CustomReason: "  ",
	})

	assert.ErrorIs(t, err, domain.ErrMissingReason)
	f.docRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestVerificationService_RejectDocument_Idempotent(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	reason := "Other: plate unreadable"
	doc := claimDoc(claim.ID, domain.DocTypeStencilStrips)
	doc.CarCompanyRejectionReason = &reason
	f.expectLoad(doc, claim)

	_, err := f.svc.RejectDocument(context.Background(), &service.RejectDocumentInput{
		DocumentID:   doc.ID,
		Role:         domain.RoleCarCompany,
		ReasonCode:   domain.ReasonOther,
		CustomReason: "plate unreadable",
	})

	require.NoError(t, err)
	f.docRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationService_VerifyDocuments_Batch(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	docs := []*domain.Document{
		claimDoc(claim.ID, domain.DocTypeDriversLicense),
		claimDoc(claim.ID, domain.DocTypeJobEstimate),
		claimDoc(claim.ID, domain.DocTypeDamagePhotos),
	}
	ids := make([]uuid.UUID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		f.docRepo.On("GetByID", mock.Anything, d.ID).Return(d, nil)
		f.docRepo.On("UpdateVerification", mock.Anything, d, domain.RoleCarCompany).Return(nil)
	}
	f.claimRepo.On("GetByID", mock.Anything, claim.ID).Return(claim, nil)

	got, err := f.svc.VerifyDocuments(context.Background(), &service.BatchVerificationInput{
		ClaimID:     claim.ID,
		Role:        domain.RoleCarCompany,
		DocumentIDs: ids,
		Verified:    true,
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, d := range got {
		assert.Equal(t, ids[i], d.ID)
		assert.True(t, d.VerifiedByCarCompany)
	}
}

func TestVerificationService_VerifyDocuments_FailsOnForeignDocument(t *testing.T) {
	f := newVerificationFixture()
	claim := reviewClaim()
	doc := claimDoc(claim.ID, domain.DocTypePoliceReport)
	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.svc.VerifyDocuments(context.Background(), &service.BatchVerificationInput{
		ClaimID:     claim.ID,
		Role:        domain.RoleCarCompany,
		DocumentIDs: []uuid.UUID{doc.ID},
		Verified:    true,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	assert.Contains(t, err.Error(), doc.ID.String())
}
