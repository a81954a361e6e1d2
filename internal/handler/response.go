package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrClaimNotFound):
		return http.StatusNotFound, "CLAIM_NOT_FOUND", "claim not found"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", "user not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrNoPortalAccess):
		return http.StatusForbidden, "PORTAL_ACCESS_DENIED", "this account cannot sign in to the review portals"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return http.StatusBadRequest, "PASSWORD_TOO_SHORT", "password must be at least 8 characters"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, "PASSWORD_MISMATCH", "passwords do not match"
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, "UNKNOWN_ROLE", "role must be car company, insurance company or admin"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusForbidden, "INVALID_ROLE", "your role may not review this document or claim"
	case errors.Is(err, domain.ErrMissingReason):
		return http.StatusBadRequest, "MISSING_REASON", "a rejection reason is required"
	case errors.Is(err, domain.ErrInvalidDecision):
		return http.StatusBadRequest, "INVALID_DECISION", "decision must be one of approve, reject, hold"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusConflict, "PRECONDITION_FAILED", err.Error()
	case errors.Is(err, domain.ErrClaimLocked):
		return http.StatusConflict, "CLAIM_LOCKED", "the review of this claim is already final"
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable, "TRANSIENT_ERROR", "temporary failure, retry the request"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// errorDetails returns structured details for errors that carry them.
func errorDetails(err error) map[string]interface{} {
	var pe *domain.PreconditionError
	if errors.As(err, &pe) {
		ids := make([]string, len(pe.DocumentIDs))
		for i, id := range pe.DocumentIDs {
			ids[i] = id.String()
		}
		return map[string]interface{}{"reason": pe.Reason, "document_ids": ids}
	}
	return nil
}

// extractAuthContext extracts user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, role, err := middleware.GetActor(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// parseUUIDParam parses a path parameter as a UUID, writing a 400 on failure.
func parseUUIDParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, code, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads offset and limit query parameters with sane bounds.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		slog.Error("internal error", "request_id", requestID, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg, Details: errorDetails(err)},
	})
}
