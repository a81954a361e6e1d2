package domain

import "github.com/google/uuid"

// QualifyingDocuments returns the documents whose type is in role's verifiable set.
func QualifyingDocuments(docs []Document, role UserRole) []Document {
	var out []Document
	for i := range docs {
		if role.CanVerify(docs[i].Type) {
			out = append(out, docs[i])
		}
	}
	return out
}

// UnverifiedQualifying returns the ids of qualifying documents role has not verified.
func UnverifiedQualifying(docs []Document, role UserRole) []uuid.UUID {
	var ids []uuid.UUID
	for _, d := range QualifyingDocuments(docs, role) {
		if !d.Verification(role).Verified {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// ReadyForApproval reports whether role has at least one qualifying document
// and has verified all of them. An empty set is never ready.
func ReadyForApproval(docs []Document, role UserRole) bool {
	return len(QualifyingDocuments(docs, role)) > 0 && len(UnverifiedQualifying(docs, role)) == 0
}

// UpstreamRole returns the role whose verification gates stage, or "" for the first stage.
func UpstreamRole(stage UserRole) UserRole {
	if stage == RoleInsuranceCompany {
		return RoleCarCompany
	}
	return ""
}

// IsEligibleForNextStage reports whether the claim may be reviewed by stage.
//
// For the insurance stage every car-company qualifying document must be
// verified by the car company, there must be at least one of them, and there
// must be at least one insurance-qualifying document to review. The first
// stage only needs a submitted claim with something to review.
func IsEligibleForNextStage(claim *Claim, docs []Document, stage UserRole) bool {
	if claim == nil || !stage.IsReviewer() {
		return false
	}
	if claim.Status == ClaimStatusDraft {
		return false
	}
	if len(QualifyingDocuments(docs, stage)) == 0 {
		return false
	}
	upstream := UpstreamRole(stage)
	if upstream == "" {
		return true
	}
	return ReadyForApproval(docs, upstream)
}

// Reasons a role approval is demoted by reconciliation.
const (
	ReconcileUnverifiedDocuments = "unverified_documents"
	ReconcileNoQualifyingDocs    = "no_qualifying_documents"
	ReconcileUnattributed        = "unattributed_approval"
)

// ReconciliationAction is a corrective demotion of one role's approval back to pending.
// Advisory actions concern final claims and are reported but never applied.
type ReconciliationAction struct {
	ClaimID               uuid.UUID   `json:"claim_id"`
	Role                  UserRole    `json:"role"`
	Reason                string      `json:"reason"`
	UnverifiedDocumentIDs []uuid.UUID `json:"unverified_document_ids,omitempty"`
	Advisory              bool        `json:"advisory"`
	// Applied is set once the demotion has been written.
	Applied bool `json:"applied"`
}

// isUnattributed reports whether an approval did not come from an explicit
// decision. Approvals without a reviewer are tolerated only on submitted
// claims, where legacy rows recorded car-company approvals without attribution.
func isUnattributed(claim *Claim, review RoleReview) bool {
	if review.DecidedAt == nil {
		return true
	}
	return review.DecidedBy == nil && claim.Status != ClaimStatusSubmitted
}

// Reconcile inspects each approved role track and returns the demotions needed
// to restore consistency. It never promotes.
func Reconcile(claim *Claim, docs []Document) []ReconciliationAction {
	if claim == nil {
		return nil
	}
	var actions []ReconciliationAction
	for _, role := range ReviewerRoles {
		review := claim.Review(role)
		if review.Status != RoleStatusApproved {
			continue
		}
		action := ReconciliationAction{ClaimID: claim.ID, Role: role}
		switch {
		case len(QualifyingDocuments(docs, role)) == 0:
			action.Reason = ReconcileNoQualifyingDocs
		case len(UnverifiedQualifying(docs, role)) > 0:
			action.Reason = ReconcileUnverifiedDocuments
			action.UnverifiedDocumentIDs = UnverifiedQualifying(docs, role)
		case isUnattributed(claim, review):
			action.Reason = ReconcileUnattributed
		default:
			continue
		}
		action.Advisory = claim.Status.IsTerminal()
		actions = append(actions, action)
	}
	return actions
}
