package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrClaimNotFound      = fmt.Errorf("claim %w", ErrNotFound)
	ErrDocumentNotFound   = fmt.Errorf("document %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrNoPortalAccess     = errors.New("account has no portal access")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUnknownRole        = errors.New("unknown portal role")
	ErrValidation         = errors.New("validation failed")

	// ErrInvalidRole is returned when a role acts outside its document-type mandate
	// or a non-reviewer attempts a review operation.
	ErrInvalidRole        = errors.New("role may not review this document")
	ErrMissingReason      = errors.New("a rejection reason is required")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrClaimLocked        = errors.New("claim review is already final for this role")
	ErrInvalidDecision    = errors.New("decision must be one of approve, reject, hold")
	ErrTransient          = errors.New("temporary failure, retry the request")
)

// PreconditionError reports why a decision could not be applied. DocumentIDs
// lists the qualifying documents the role has not verified yet.
type PreconditionError struct {
	Role        UserRole
	Reason      string
	DocumentIDs []uuid.UUID
}

func (e *PreconditionError) Error() string {
	if len(e.DocumentIDs) == 0 {
		return fmt.Sprintf("%s: %s", ErrPreconditionFailed, e.Reason)
	}
	ids := make([]string, len(e.DocumentIDs))
	for i, id := range e.DocumentIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s: %s (%s)", ErrPreconditionFailed, e.Reason, strings.Join(ids, ", "))
}

// Is matches ErrPreconditionFailed.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// TransientError wraps a store or delivery failure that is safe to retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Is matches ErrTransient.
func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}

// NewTransientError wraps err as retryable unless it already carries a domain meaning.
func NewTransientError(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return &TransientError{Op: op, Err: err}
}

// IsDomainError reports whether err is one of the business-rule errors above,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidRole, ErrMissingReason, ErrPreconditionFailed,
		ErrClaimLocked, ErrInvalidDecision, ErrTransient, ErrDuplicateEmail, ErrValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
