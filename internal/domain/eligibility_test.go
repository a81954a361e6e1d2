package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurevis/internal/domain"
)

func doc(t domain.DocumentType, carVerified, insVerified bool) domain.Document {
	return domain.Document{
		ID:                         uuid.New(),
		Type:                       t,
		VerifiedByCarCompany:       carVerified,
		VerifiedByInsuranceCompany: insVerified,
	}
}

func submittedClaim() *domain.Claim {
	return &domain.Claim{
		ID:                     uuid.New(),
		Status:                 domain.ClaimStatusSubmitted,
		CarCompanyStatus:       domain.RoleStatusPending,
		InsuranceCompanyStatus: domain.RoleStatusPending,
	}
}

func TestQualifyingDocuments_FiltersByMandate(t *testing.T) {
	docs := []domain.Document{
		doc(domain.DocTypeStencilStrips, false, false),
		doc(domain.DocTypePoliceReport, false, false),
		doc(domain.DocTypeDamagePhotos, false, false),
	}

	car := domain.QualifyingDocuments(docs, domain.RoleCarCompany)
	ins := domain.QualifyingDocuments(docs, domain.RoleInsuranceCompany)

	require.Len(t, car, 2)
	assert.Equal(t, domain.DocTypeStencilStrips, car[0].Type)
	assert.Equal(t, domain.DocTypeDamagePhotos, car[1].Type)
	require.Len(t, ins, 2)
	assert.Equal(t, domain.DocTypePoliceReport, ins[0].Type)
	assert.Empty(t, domain.QualifyingDocuments(docs, domain.RoleClaimant))
}

func TestReadyForApproval_EmptySetIsNeverReady(t *testing.T) {
	assert.False(t, domain.ReadyForApproval(nil, domain.RoleCarCompany))
	assert.False(t, domain.ReadyForApproval([]domain.Document{doc(domain.DocTypePoliceReport, false, true)}, domain.RoleCarCompany))
}

func TestReadyForApproval_OnePendingBlocks(t *testing.T) {
	docs := []domain.Document{
		doc(domain.DocTypeDriversLicense, true, false),
		doc(domain.DocTypeJobEstimate, true, false),
		doc(domain.DocTypeDamagePhotos, false, false),
	}

	assert.False(t, domain.ReadyForApproval(docs, domain.RoleCarCompany))
	assert.Equal(t, []uuid.UUID{docs[2].ID}, domain.UnverifiedQualifying(docs, domain.RoleCarCompany))

	docs[2].VerifiedByCarCompany = true
	assert.True(t, domain.ReadyForApproval(docs, domain.RoleCarCompany))
}

func TestIsEligibleForNextStage_CarCompany(t *testing.T) {
	claim := submittedClaim()
	docs := []domain.Document{doc(domain.DocTypeJobEstimate, false, false)}

	assert.True(t, domain.IsEligibleForNextStage(claim, docs, domain.RoleCarCompany))
	assert.False(t, domain.IsEligibleForNextStage(claim, nil, domain.RoleCarCompany))

	claim.Status = domain.ClaimStatusDraft
	assert.False(t, domain.IsEligibleForNextStage(claim, docs, domain.RoleCarCompany))
}

func TestIsEligibleForNextStage_InsuranceNeedsCarVerification(t *testing.T) {
	claim := submittedClaim()
	docs := []domain.Document{
		doc(domain.DocTypeDriversLicense, true, false),
		doc(domain.DocTypeStencilStrips, false, false),
	}

	assert.False(t, domain.IsEligibleForNextStage(claim, docs, domain.RoleInsuranceCompany))

	docs[1].VerifiedByCarCompany = true
	assert.True(t, domain.IsEligibleForNextStage(claim, docs, domain.RoleInsuranceCompany))
}

func TestIsEligibleForNextStage_InsuranceWithNoInsuranceDocuments(t *testing.T) {
	claim := submittedClaim()
	docs := []domain.Document{doc(domain.DocTypeStencilStrips, true, false)}

	assert.True(t, domain.ReadyForApproval(docs, domain.RoleCarCompany))
	assert.False(t, domain.IsEligibleForNextStage(claim, docs, domain.RoleInsuranceCompany))
}

func TestIsEligibleForNextStage_NonReviewerAndNilClaim(t *testing.T) {
	docs := []domain.Document{doc(domain.DocTypeJobEstimate, true, true)}

	assert.False(t, domain.IsEligibleForNextStage(submittedClaim(), docs, domain.RoleAdmin))
	assert.False(t, domain.IsEligibleForNextStage(nil, docs, domain.RoleCarCompany))
}

func TestReconcile_DemotesApprovalWithUnverifiedDocuments(t *testing.T) {
	now := time.Now()
	actor := uuid.New()
	claim := submittedClaim()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	claim.CarCompanyDecidedBy = &actor
	docs := []domain.Document{
		doc(domain.DocTypeDriversLicense, true, false),
		doc(domain.DocTypeStencilStrips, false, false),
	}

	actions := domain.Reconcile(claim, docs)

	require.Len(t, actions, 1)
	assert.Equal(t, domain.RoleCarCompany, actions[0].Role)
	assert.Equal(t, domain.ReconcileUnverifiedDocuments, actions[0].Reason)
	assert.Equal(t, []uuid.UUID{docs[1].ID}, actions[0].UnverifiedDocumentIDs)
	assert.False(t, actions[0].Advisory)
	assert.False(t, actions[0].Applied)
}

func TestReconcile_NoQualifyingDocuments(t *testing.T) {
	now := time.Now()
	claim := submittedClaim()
	claim.InsuranceCompanyStatus = domain.RoleStatusApproved
	claim.InsuranceCompanyDecidedAt = &now

	actions := domain.Reconcile(claim, []domain.Document{doc(domain.DocTypeStencilStrips, true, false)})

	require.Len(t, actions, 1)
	assert.Equal(t, domain.RoleInsuranceCompany, actions[0].Role)
	assert.Equal(t, domain.ReconcileNoQualifyingDocs, actions[0].Reason)
}

func TestReconcile_UnattributedApproval(t *testing.T) {
	claim := submittedClaim()
	claim.Status = domain.ClaimStatusUnderReview
	claim.CarCompanyStatus = domain.RoleStatusApproved
	docs := []domain.Document{doc(domain.DocTypeJobEstimate, true, false)}

	actions := domain.Reconcile(claim, docs)

	require.Len(t, actions, 1)
	assert.Equal(t, domain.ReconcileUnattributed, actions[0].Reason)
}

func TestReconcile_LegacyApprovalOnSubmittedClaimTolerated(t *testing.T) {
	now := time.Now()
	claim := submittedClaim()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	docs := []domain.Document{doc(domain.DocTypeJobEstimate, true, false)}

	assert.Empty(t, domain.Reconcile(claim, docs))
}

func TestReconcile_FinalClaimIsAdvisory(t *testing.T) {
	now := time.Now()
	actor := uuid.New()
	claim := submittedClaim()
	claim.Status = domain.ClaimStatusApproved
	claim.InsuranceCompanyStatus = domain.RoleStatusApproved
	claim.InsuranceCompanyDecidedAt = &now
	claim.InsuranceCompanyDecidedBy = &actor
	docs := []domain.Document{doc(domain.DocTypePoliceReport, false, false)}

	actions := domain.Reconcile(claim, docs)

	require.Len(t, actions, 1)
	assert.True(t, actions[0].Advisory)
}

func TestReconcile_ConsistentClaimNeedsNothing(t *testing.T) {
	now := time.Now()
	actor := uuid.New()
	claim := submittedClaim()
	claim.CarCompanyStatus = domain.RoleStatusApproved
	claim.CarCompanyDecidedAt = &now
	claim.CarCompanyDecidedBy = &actor
	docs := []domain.Document{doc(domain.DocTypeJobEstimate, true, false)}

	assert.Empty(t, domain.Reconcile(claim, docs))
	assert.Nil(t, domain.Reconcile(nil, docs))
}
