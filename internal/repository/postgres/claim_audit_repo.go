package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

type claimAuditRepo struct {
	db *sqlx.DB
}

// NewClaimAuditRepo creates a new PostgreSQL-backed ClaimAuditRepository.
func NewClaimAuditRepo(db *sqlx.DB) port.ClaimAuditRepository {
	return &claimAuditRepo{db: db}
}

func (r *claimAuditRepo) Create(ctx context.Context, entry *domain.ClaimAuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO claim_audit_log (id, claim_id, document_id, user_id, action, changes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.ClaimID, entry.DocumentID, entry.UserID, entry.Action, entry.Changes)
	if err != nil {
		return fmt.Errorf("claimAuditRepo.Create: %w", err)
	}
	return nil
}

func (r *claimAuditRepo) ListByClaim(ctx context.Context, claimID uuid.UUID, offset, limit int) ([]domain.ClaimAuditEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM claim_audit_log WHERE claim_id = $1`, claimID)
	if err != nil {
		return nil, 0, fmt.Errorf("claimAuditRepo.ListByClaim count: %w", err)
	}

	var entries []domain.ClaimAuditEntry
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM claim_audit_log
		 WHERE claim_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		claimID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("claimAuditRepo.ListByClaim: %w", err)
	}
	return entries, total, nil
}
