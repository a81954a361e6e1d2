package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insurevis/internal/domain"
)

func TestCountDocuments(t *testing.T) {
	reason := "Document is expired"
	rejected := doc(domain.DocTypeJobEstimate, false, false)
	rejected.CarCompanyRejectionReason = &reason
	docs := []domain.Document{
		doc(domain.DocTypeDriversLicense, true, false),
		rejected,
		doc(domain.DocTypeDamagePhotos, false, false),
		doc(domain.DocTypePoliceReport, false, false),
	}

	got := domain.CountDocuments(docs, domain.RoleCarCompany)

	assert.Equal(t, domain.DocumentCounts{Total: 3, Verified: 1, Rejected: 1, Pending: 1}, got)
}

func TestSummarizeClaim(t *testing.T) {
	row := domain.ClaimListRow{Claim: *submittedClaim(), OwnerName: "Ana Cruz"}
	row.Status = domain.ClaimStatusUnderReview
	docs := []domain.Document{doc(domain.DocTypePoliceReport, true, true)}

	got := domain.SummarizeClaim(row, docs, domain.RoleInsuranceCompany)

	assert.Equal(t, "In Review", got.StatusLabel)
	assert.Equal(t, 1, got.Documents.Verified)
	assert.True(t, got.ReadyForApproval)
	assert.Equal(t, "Ana Cruz", got.OwnerName)
}
