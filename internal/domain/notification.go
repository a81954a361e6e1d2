package domain

import "fmt"

// DecisionNotification builds the owner-facing message for a claim decision.
func DecisionNotification(claim *Claim, role UserRole, decision Decision, notes string) Notification {
	n := Notification{TargetUserID: claim.UserID, ClaimID: claim.ID}
	number, party := claim.DisplayNumber(), role.DisplayName()
	switch decision {
	case DecisionApprove:
		n.Title = "Claim Approved"
		n.Body = fmt.Sprintf("Your claim %s has been approved by the %s.", number, party)
		n.Tag = NotificationApproved
	case DecisionReject:
		n.Title = "Claim Rejected"
		n.Body = fmt.Sprintf("Your claim %s has been rejected by the %s.\n\nReason:\n%s", number, party, notes)
		n.Tag = NotificationRejected
	default:
		n.Title = "Claim Under Review"
		n.Body = fmt.Sprintf("Your claim %s is marked as Under Review by the %s. We will get back to you soon.", number, party)
		n.Tag = NotificationReview
	}
	return n
}
