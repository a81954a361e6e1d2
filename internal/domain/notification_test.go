package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"insurevis/internal/domain"
)

func TestDecisionNotification_Golden(t *testing.T) {
	claim := &domain.Claim{
		ID:          uuid.MustParse("5b0f6a3e-2f4c-4d8e-9a1b-3c2d1e0f9a8b"),
		ClaimNumber: "CLM-2024-0042",
		UserID:      uuid.MustParse("0c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f"),
	}
	tests := []struct {
		name     string
		role     domain.UserRole
		decision domain.Decision
		notes    string
	}{
		{"approve_car_company", domain.RoleCarCompany, domain.DecisionApprove, ""},
		{"reject_insurance_company", domain.RoleInsuranceCompany, domain.DecisionReject, "Policy lapsed before the incident date."},
		{"hold_car_company", domain.RoleCarCompany, domain.DecisionHold, "Waiting for shop estimate."},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := domain.DecisionNotification(claim, tt.role, tt.decision, tt.notes)
			out, err := json.MarshalIndent(n, "", "  ")
			require.NoError(t, err)
			g.Assert(t, "notification_"+tt.name, out)
		})
	}
}

func TestDecisionNotification_FallsBackToClaimID(t *testing.T) {
	claim := &domain.Claim{ID: uuid.New()}

	n := domain.DecisionNotification(claim, domain.RoleCarCompany, domain.DecisionApprove, "")

	require.Contains(t, n.Body, claim.ID.String())
}
