package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"insurevis/internal/domain"
)

func TestPreconditionError_ListsDocuments(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	err := &domain.PreconditionError{Role: domain.RoleCarCompany, Reason: "documents are not verified", DocumentIDs: []uuid.UUID{id}}

	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	assert.Equal(t, "precondition failed: documents are not verified (11111111-1111-1111-1111-111111111111)", err.Error())
}

func TestNewTransientError(t *testing.T) {
	assert.NoError(t, domain.NewTransientError("op", nil))
	assert.Equal(t, domain.ErrClaimNotFound, domain.NewTransientError("op", domain.ErrClaimNotFound))

	driverErr := errors.New("connection reset")
	err := domain.NewTransientError("loading claim", driverErr)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, err, driverErr)
	assert.Equal(t, "loading claim: connection reset", err.Error())
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, domain.IsDomainError(domain.ErrDocumentNotFound))
	assert.True(t, domain.IsDomainError(fmt.Errorf("wrapped: %w", domain.ErrInvalidRole)))
	assert.False(t, domain.IsDomainError(errors.New("boom")))
}
