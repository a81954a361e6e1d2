package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a portal account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Claim represents one insurance claim and its two reviewer approval tracks.
type Claim struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	ClaimNumber string      `db:"claim_number" json:"claim_number"`
	UserID      uuid.UUID   `db:"user_id" json:"user_id"`
	Status      ClaimStatus `db:"status" json:"status"`

	CarCompanyStatus    RoleStatus `db:"car_company_status" json:"car_company_status"`
	CarCompanyDecidedBy *uuid.UUID `db:"car_company_decided_by" json:"car_company_decided_by"`
	CarCompanyDecidedAt *time.Time `db:"car_company_decided_at" json:"car_company_decided_at"`
	CarCompanyNotes     string     `db:"car_company_notes" json:"car_company_notes"`

	InsuranceCompanyStatus    RoleStatus `db:"insurance_company_status" json:"insurance_company_status"`
	InsuranceCompanyDecidedBy *uuid.UUID `db:"insurance_company_decided_by" json:"insurance_company_decided_by"`
	InsuranceCompanyDecidedAt *time.Time `db:"insurance_company_decided_at" json:"insurance_company_decided_at"`
	InsuranceCompanyNotes     string     `db:"insurance_company_notes" json:"insurance_company_notes"`

	ApprovedAt *time.Time `db:"approved_at" json:"approved_at"`
	RejectedAt *time.Time `db:"rejected_at" json:"rejected_at"`

	VehicleMake   string   `db:"vehicle_make" json:"vehicle_make"`
	VehicleModel  string   `db:"vehicle_model" json:"vehicle_model"`
	VehicleYear   string   `db:"vehicle_year" json:"vehicle_year"`
	VehiclePlate  string   `db:"vehicle_plate" json:"vehicle_plate"`
	EstimatedCost *float64 `db:"estimated_cost" json:"estimated_cost"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoleReview is one reviewer role's approval track on a claim.
type RoleReview struct {
	Status    RoleStatus
	DecidedBy *uuid.UUID
	DecidedAt *time.Time
	Notes     string
}

// Review returns the claim's approval track for role. Non-reviewer roles get a zero value.
func (c *Claim) Review(role UserRole) RoleReview {
	switch role {
	case RoleCarCompany:
		return RoleReview{c.CarCompanyStatus, c.CarCompanyDecidedBy, c.CarCompanyDecidedAt, c.CarCompanyNotes}
	case RoleInsuranceCompany:
		return RoleReview{c.InsuranceCompanyStatus, c.InsuranceCompanyDecidedBy, c.InsuranceCompanyDecidedAt, c.InsuranceCompanyNotes}
	}
	return RoleReview{}
}

// SetReview replaces the claim's approval track for role.
func (c *Claim) SetReview(role UserRole, r RoleReview) {
	switch role {
	case RoleCarCompany:
		c.CarCompanyStatus, c.CarCompanyDecidedBy, c.CarCompanyDecidedAt, c.CarCompanyNotes = r.Status, r.DecidedBy, r.DecidedAt, r.Notes
	case RoleInsuranceCompany:
		c.InsuranceCompanyStatus, c.InsuranceCompanyDecidedBy, c.InsuranceCompanyDecidedAt, c.InsuranceCompanyNotes = r.Status, r.DecidedBy, r.DecidedAt, r.Notes
	}
}

// DisplayNumber returns the claim number, falling back to the id for claims
// created before numbers were assigned.
func (c *Claim) DisplayNumber() string {
	if c.ClaimNumber != "" {
		return c.ClaimNumber
	}
	return c.ID.String()
}

// Document represents one uploaded file attached to a claim.
type Document struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	ClaimID     uuid.UUID    `db:"claim_id" json:"claim_id"`
	Type        DocumentType `db:"type" json:"type"`
	FileName    string       `db:"file_name" json:"file_name"`
	MimeType    string       `db:"mime_type" json:"mime_type"`
	FileSize    int64        `db:"file_size" json:"file_size"`
	StoragePath string       `db:"storage_path" json:"storage_path"`
	IsPrimary   bool         `db:"is_primary" json:"is_primary"`

	VerifiedByCarCompany            bool       `db:"verified_by_car_company" json:"verified_by_car_company"`
	CarCompanyVerifiedAt            *time.Time `db:"car_company_verified_at" json:"car_company_verified_at"`
	CarCompanyRejectionReason       *string    `db:"car_company_rejection_reason" json:"car_company_rejection_reason"`
	VerifiedByInsuranceCompany      bool       `db:"verified_by_insurance_company" json:"verified_by_insurance_company"`
	InsuranceCompanyVerifiedAt      *time.Time `db:"insurance_company_verified_at" json:"insurance_company_verified_at"`
	InsuranceCompanyRejectionReason *string    `db:"insurance_company_rejection_reason" json:"insurance_company_rejection_reason"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Verification is one reviewer role's verdict on a document.
type Verification struct {
	Verified        bool
	VerifiedAt      *time.Time
	RejectionReason *string
}

// Rejected reports whether the role rejected the document.
func (v Verification) Rejected() bool {
	return !v.Verified && v.RejectionReason != nil
}

// Verification returns the document's verdict for role.
func (d *Document) Verification(role UserRole) Verification {
	switch role {
	case RoleCarCompany:
		return Verification{d.VerifiedByCarCompany, d.CarCompanyVerifiedAt, d.CarCompanyRejectionReason}
	case RoleInsuranceCompany:
		return Verification{d.VerifiedByInsuranceCompany, d.InsuranceCompanyVerifiedAt, d.InsuranceCompanyRejectionReason}
	}
	return Verification{}
}

// SetVerification replaces the document's verdict for role.
func (d *Document) SetVerification(role UserRole, v Verification) {
	switch role {
	case RoleCarCompany:
		d.VerifiedByCarCompany, d.CarCompanyVerifiedAt, d.CarCompanyRejectionReason = v.Verified, v.VerifiedAt, v.RejectionReason
	case RoleInsuranceCompany:
		d.VerifiedByInsuranceCompany, d.InsuranceCompanyVerifiedAt, d.InsuranceCompanyRejectionReason = v.Verified, v.VerifiedAt, v.RejectionReason
	}
}

// ClaimAuditEntry records a single review mutation on a claim or one of its documents.
type ClaimAuditEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ClaimID    uuid.UUID       `db:"claim_id" json:"claim_id"`
	DocumentID *uuid.UUID      `db:"document_id" json:"document_id,omitempty"`
	UserID     *uuid.UUID      `db:"user_id" json:"user_id,omitempty"`
	Action     AuditAction     `db:"action" json:"action"`
	Changes    json.RawMessage `db:"changes" json:"changes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// ClaimListRow is a claim as listed to reviewers, joined with its owner.
type ClaimListRow struct {
	Claim
	OwnerName  string `db:"owner_name" json:"owner_name"`
	OwnerEmail string `db:"owner_email" json:"owner_email"`
}

// ClaimFilter narrows claim listings. Zero-valued fields do not filter.
type ClaimFilter struct {
	Status ClaimStatus
	// Search matches claim number, owner name or owner email, case-insensitively.
	Search string
	// EligibleFor restricts to claims eligible for the given stage's review.
	EligibleFor UserRole
	// PendingReconciliation restricts to non-final claims with at least one approved role.
	PendingReconciliation bool
}

// Notification is a status-change message for a claim owner.
type Notification struct {
	ID           string          `json:"id"`
	TargetUserID uuid.UUID       `json:"target_user_id"`
	ClaimID      uuid.UUID       `json:"claim_id"`
	Title        string          `json:"title"`
	Body         string          `json:"body"`
	Tag          NotificationTag `json:"status"`
}

// DeliveryResult is the outcome of one notification delivery attempt.
type DeliveryResult struct {
	OK         bool            `json:"ok"`
	StatusCode int             `json:"status"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// ReviewEvent describes a review transition published to external subscribers.
type ReviewEvent struct {
	Type       string         `json:"type"`
	ClaimID    uuid.UUID      `json:"claim_id"`
	DocumentID *uuid.UUID     `json:"document_id,omitempty"`
	Role       UserRole       `json:"role"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

const (
	EventDocumentVerified = "com.insurevis.document.verified"
	EventDocumentRejected = "com.insurevis.document.rejected"
	EventClaimDecided     = "com.insurevis.claim.decided"
	EventClaimReconciled  = "com.insurevis.claim.reconciled"
)
