package handler

import (
	"time"

	"github.com/google/uuid"

	"insurevis/internal/domain"
)

// Request and response shapes referenced by the swag annotations.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"reviewer@carco.example"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateUserRequest represents the admin signup request body.
type CreateUserRequest struct {
	Email           string `json:"email" binding:"required" example:"reviewer@insurer.example"`
	Password        string `json:"password" binding:"required" example:"securepassword123"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"securepassword123"`
	FullName        string `json:"full_name" example:"Maria Santos"`
	Role            string `json:"role" binding:"required" example:"Insurance Company"`
}

// SetVerificationRequest represents the verify/un-verify document request body.
type SetVerificationRequest struct {
	Verified *bool `json:"verified" binding:"required" example:"true"`
}

// RejectDocumentRequest represents the reject document request body.
type RejectDocumentRequest struct {
	ReasonCode   domain.RejectionReasonCode `json:"reason_code" example:"document_expired"`
	CustomReason string                     `json:"custom_reason" example:"Photo is of a different vehicle"`
}

// BatchVerificationRequest represents the batch verification request body.
type BatchVerificationRequest struct {
	DocumentIDs []uuid.UUID `json:"document_ids" binding:"required,min=1,max=100"`
	Verified    *bool       `json:"verified" binding:"required" example:"true"`
}

// DecideRequest represents the claim decision request body.
type DecideRequest struct {
	Decision domain.Decision `json:"decision" binding:"required" example:"approve"`
	Notes    string          `json:"notes" example:"All documents in order."`
}

// --- Response Types ---

// TokenResponse represents the login response data.
type TokenResponse struct {
	AccessToken  string          `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string          `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time       `json:"expires_at" example:"2026-01-15T10:30:00Z"`
	Role         domain.UserRole `json:"role" example:"car_company"`
	Redirect     string          `json:"redirect" example:"/car-company/"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// --- Generic Response Wrappers ---

// Response is the generic API response wrapper.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody is the API error response wrapper.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
