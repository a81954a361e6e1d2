package domain

import (
	"sort"
	"strings"
)

// UserRole represents the role of an account.
type UserRole string

const (
	RoleAdmin            UserRole = "admin"
	RoleCarCompany       UserRole = "car_company"
	RoleInsuranceCompany UserRole = "insurance_company"
	RoleClaimant         UserRole = "claimant"
)

// ReviewerRoles lists the roles that take part in the two-stage review, in pipeline order.
var ReviewerRoles = []UserRole{RoleCarCompany, RoleInsuranceCompany}

// IsReviewer reports whether the role owns an approval track.
func (r UserRole) IsReviewer() bool {
	return r == RoleCarCompany || r == RoleInsuranceCompany
}

// DisplayName returns the party name used in notification copy.
func (r UserRole) DisplayName() string {
	switch r {
	case RoleCarCompany:
		return "Car Company"
	case RoleInsuranceCompany:
		return "Insurance Company"
	case RoleAdmin:
		return "Administrator"
	default:
		return "Claimant"
	}
}

// PortalRoute returns the landing route of the role's portal, or "" if the role has none.
func (r UserRole) PortalRoute() string {
	switch r {
	case RoleCarCompany:
		return "/car-company/"
	case RoleInsuranceCompany:
		return "/insurance-company/"
	case RoleAdmin:
		return "/admin-signup/"
	default:
		return ""
	}
}

// NormalizeRole maps the many spellings portal metadata uses ("Car Company",
// "insurance-company", "administrator") to a canonical role. It returns false
// when the input names no known role.
func NormalizeRole(s string) (UserRole, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch {
	case n == "":
		return "", false
	case strings.Contains(n, "car") && strings.Contains(n, "company"):
		return RoleCarCompany, true
	case strings.Contains(n, "insurance") && strings.Contains(n, "company"):
		return RoleInsuranceCompany, true
	case strings.Contains(n, "admin"):
		return RoleAdmin, true
	case n == "claimant" || n == "user":
		return RoleClaimant, true
	}
	return "", false
}

// ClaimStatus is the overall lifecycle status of a claim.
type ClaimStatus string

const (
	ClaimStatusDraft       ClaimStatus = "draft"
	ClaimStatusSubmitted   ClaimStatus = "submitted"
	ClaimStatusUnderReview ClaimStatus = "under_review"
	ClaimStatusApproved    ClaimStatus = "approved"
	ClaimStatusRejected    ClaimStatus = "rejected"
)

// IsTerminal reports whether no further review is possible.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// IsValid reports whether s is a known claim status.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusDraft, ClaimStatusSubmitted, ClaimStatusUnderReview, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// Label returns the status as shown to reviewers.
func (s ClaimStatus) Label() string {
	switch s {
	case ClaimStatusUnderReview:
		return "In Review"
	case "":
		return ""
	}
	parts := strings.FieldsFunc(string(s), func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// RoleStatus is the status of one reviewer role's approval track.
type RoleStatus string

const (
	RoleStatusPending  RoleStatus = "pending"
	RoleStatusApproved RoleStatus = "approved"
	RoleStatusRejected RoleStatus = "rejected"
)

// IsTerminal reports whether the track has been decided.
func (s RoleStatus) IsTerminal() bool {
	return s == RoleStatusApproved || s == RoleStatusRejected
}

// Decision is a reviewer's claim-level verdict.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionHold    Decision = "hold"
)

// IsValid reports whether d is a known decision.
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject || d == DecisionHold
}

// DocumentType tags an uploaded claim document.
type DocumentType string

const (
	DocTypeLTOOfficialReceipt    DocumentType = "lto_or"
	DocTypeLTOCertOfRegistration DocumentType = "lto_cr"
	DocTypeDriversLicense        DocumentType = "drivers_license"
	DocTypeOwnerValidID          DocumentType = "owner_valid_id"
	DocTypeStencilStrips         DocumentType = "stencil_strips"
	DocTypeDamagePhotos          DocumentType = "damage_photos"
	DocTypeJobEstimate           DocumentType = "job_estimate"
	DocTypePoliceReport          DocumentType = "police_report"
	DocTypeInsurancePolicy       DocumentType = "insurance_policy"
	DocTypeAdditionalDocuments   DocumentType = "additional_documents"
)

var documentTypeNames = map[DocumentType]string{
	DocTypeLTOOfficialReceipt:    "LTO Official Receipt",
	DocTypeLTOCertOfRegistration: "LTO Certificate of Registration",
	DocTypeDriversLicense:        "Driver's License",
	DocTypeOwnerValidID:          "Owner Valid ID",
	DocTypeStencilStrips:         "Stencil Strips",
	DocTypeDamagePhotos:          "Damage Photos",
	DocTypeJobEstimate:           "Job Estimate",
	DocTypePoliceReport:          "Police Report",
	DocTypeInsurancePolicy:       "Insurance Policy",
	DocTypeAdditionalDocuments:   "Additional Documents",
}

// DisplayName returns the human-readable document type.
func (t DocumentType) DisplayName() string {
	if name, ok := documentTypeNames[t]; ok {
		return name
	}
	return string(t)
}

var verifiableTypes = map[UserRole]map[DocumentType]bool{
	RoleCarCompany: {
		DocTypeLTOOfficialReceipt:    true,
		DocTypeLTOCertOfRegistration: true,
		DocTypeDriversLicense:        true,
		DocTypeOwnerValidID:          true,
		DocTypeStencilStrips:         true,
		DocTypeDamagePhotos:          true,
		DocTypeJobEstimate:           true,
	},
	RoleInsuranceCompany: {
		DocTypePoliceReport:          true,
		DocTypeInsurancePolicy:       true,
		DocTypeDriversLicense:        true,
		DocTypeOwnerValidID:          true,
		DocTypeJobEstimate:           true,
		DocTypeDamagePhotos:          true,
		DocTypeLTOOfficialReceipt:    true,
		DocTypeLTOCertOfRegistration: true,
		DocTypeAdditionalDocuments:   true,
	},
}

// CanVerify reports whether the role's mandate covers documents of type t.
func (r UserRole) CanVerify(t DocumentType) bool {
	return verifiableTypes[r][t]
}

// VerifiableTypes returns the role's document-type mandate in sorted order.
func (r UserRole) VerifiableTypes() []string {
	types := make([]string, 0, len(verifiableTypes[r]))
	for t := range verifiableTypes[r] {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return types
}

// RejectionReasonCode is one of the fixed reasons a reviewer can give when rejecting a document.
type RejectionReasonCode string

const (
	ReasonIllegible  RejectionReasonCode = "document_illegible"
	ReasonExpired    RejectionReasonCode = "document_expired"
	ReasonIncomplete RejectionReasonCode = "document_incomplete"
	ReasonForged     RejectionReasonCode = "document_forged"
	ReasonWrongType  RejectionReasonCode = "document_wrong_type"
	ReasonMismatch   RejectionReasonCode = "document_mismatch"
	ReasonOther      RejectionReasonCode = "other"
)

// RejectionReasonCodes lists the codes in the order the portals present them.
var RejectionReasonCodes = []RejectionReasonCode{
	ReasonIllegible, ReasonExpired, ReasonIncomplete, ReasonForged, ReasonWrongType, ReasonMismatch, ReasonOther,
}

var rejectionReasonLabels = map[RejectionReasonCode]string{
	ReasonIllegible:  "Document is illegible or unclear",
	ReasonExpired:    "Document is expired",
	ReasonIncomplete: "Document is incomplete",
	ReasonForged:     "Document appears to be forged",
	ReasonWrongType:  "Wrong document type submitted",
	ReasonMismatch:   "Document information doesn't match claim",
	ReasonOther:      "Other",
}

// Label returns the reviewer-facing text for the code.
func (c RejectionReasonCode) Label() string {
	return rejectionReasonLabels[c]
}

// FormatRejectionReason builds the reason string stored on a rejected document.
// The "others" spelling used by older clients is accepted as ReasonOther.
func FormatRejectionReason(code RejectionReasonCode, custom string) (string, error) {
	if code == "others" {
		code = ReasonOther
	}
	if code == ReasonOther {
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", ErrMissingReason
		}
		return "Other: " + custom, nil
	}
	label, ok := rejectionReasonLabels[code]
	if !ok {
		return "", ErrMissingReason
	}
	return label, nil
}

// NotificationTag classifies a claim notification for the receiving app.
type NotificationTag string

const (
	NotificationApproved NotificationTag = "approved"
	NotificationRejected NotificationTag = "rejected"
	NotificationReview   NotificationTag = "review"
)

// AuditAction names an entry in the claim audit trail.
type AuditAction string

const (
	AuditDocumentVerified       AuditAction = "document.verified"
	AuditDocumentUnverified     AuditAction = "document.unverified"
	AuditDocumentRejected       AuditAction = "document.rejected"
	AuditClaimDecided           AuditAction = "claim.decided"
	AuditApprovalCascadeCleared AuditAction = "claim.approval_cleared"
	AuditReconciliationConflict AuditAction = "reconciliation_conflict"
)
