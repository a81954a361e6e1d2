package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE claim_id = $1
		 ORDER BY is_primary DESC, created_at ASC`, claimID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByClaim: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListByClaimIDs(ctx context.Context, claimIDs []uuid.UUID) ([]domain.Document, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(claimIDs))
	for i, id := range claimIDs {
		ids[i] = id.String()
	}
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE claim_id = ANY($1::uuid[])
		 ORDER BY claim_id, is_primary DESC, created_at ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByClaimIDs: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateVerification(ctx context.Context, doc *domain.Document, role domain.UserRole) error {
	prefix, err := roleColumnPrefix(string(role))
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateVerification: %w", err)
	}
	v := doc.Verification(role)
	doc.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf(`UPDATE documents SET
			verified_by_%[1]s = $1, %[1]s_verified_at = $2,
			%[1]s_rejection_reason = $3, updated_at = $4
		 WHERE id = $5`, prefix)
	result, err := r.db.ExecContext(ctx, query,
		v.Verified, v.VerifiedAt, v.RejectionReason, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateVerification: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
