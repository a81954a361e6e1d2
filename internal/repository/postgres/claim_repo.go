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

type claimRepo struct {
	db *sqlx.DB
}

// NewClaimRepo creates a new PostgreSQL-backed ClaimRepository.
func NewClaimRepo(db *sqlx.DB) port.ClaimRepository {
	return &claimRepo{db: db}
}

func (r *claimRepo) GetByID(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.GetContext(ctx, &claim, "SELECT * FROM claims WHERE id = $1", claimID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("claimRepo.GetByID: %w", err)
	}
	return &claim, nil
}

// buildClaimWhereClause constructs the WHERE clause for claim listings.
// It returns the clause string (empty or starting with "WHERE") and the positional arguments.
func buildClaimWhereClause(filter domain.ClaimFilter) (clause string, args []interface{}) {
	var conds []string
	argN := 1

	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("c.status = $%d", argN))
		args = append(args, filter.Status)
		argN++
	}
	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf(
			"(c.claim_number ILIKE $%[1]d OR u.full_name ILIKE $%[1]d OR u.email ILIKE $%[1]d)", argN))
		args = append(args, "%"+filter.Search+"%")
		argN++
	}
	if filter.EligibleFor.IsReviewer() {
		conds = append(conds, "c.status <> 'draft'")
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM documents d WHERE d.claim_id = c.id AND d.type = ANY($%d))", argN))
		args = append(args, filter.EligibleFor.VerifiableTypes())
		argN++
		if upstream := domain.UpstreamRole(filter.EligibleFor); upstream != "" {
			conds = append(conds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM documents d WHERE d.claim_id = c.id AND d.type = ANY($%d))", argN))
			conds = append(conds, fmt.Sprintf(
				"NOT EXISTS (SELECT 1 FROM documents d WHERE d.claim_id = c.id AND d.type = ANY($%d) AND NOT d.verified_by_%s)",
				argN, upstream))
			args = append(args, upstream.VerifiableTypes())
		}
	}
	if filter.PendingReconciliation {
		conds = append(conds, "c.status NOT IN ('approved', 'rejected')")
		conds = append(conds, "(c.car_company_status = 'approved' OR c.insurance_company_status = 'approved')")
	}

	for i, cond := range conds {
		if i == 0 {
			clause = "WHERE " + cond
		} else {
			clause += " AND " + cond
		}
	}
	return clause, args
}

func (r *claimRepo) List(ctx context.Context, filter domain.ClaimFilter, offset, limit int) ([]domain.ClaimListRow, int, error) {
	where, args := buildClaimWhereClause(filter)
	from := "FROM claims c LEFT JOIN users u ON u.id = c.user_id " + where

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+from, args...); err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT c.*, COALESCE(u.full_name, '') AS owner_name, COALESCE(u.email, '') AS owner_email
		%s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`, from, n+1, n+2)
	var rows []domain.ClaimListRow
	if err := r.db.SelectContext(ctx, &rows, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List: %w", err)
	}
	return rows, total, nil
}

// decisionUpdateQuery writes the overall status and one role's track.
func decisionUpdateQuery(prefix string) string {
	return fmt.Sprintf(`UPDATE claims SET
			status = $1,
			%[1]s_status = $2, %[1]s_decided_by = $3,
			%[1]s_decided_at = $4, %[1]s_notes = $5,
			approved_at = $6, rejected_at = $7, updated_at = $8
		 WHERE id = $9`, prefix)
}

func (r *claimRepo) UpdateDecision(ctx context.Context, claim *domain.Claim, role domain.UserRole) error {
	prefix, err := roleColumnPrefix(string(role))
	if err != nil {
		return fmt.Errorf("claimRepo.UpdateDecision: %w", err)
	}
	claim.UpdatedAt = time.Now().UTC()
	review := claim.Review(role)
	result, err := r.db.ExecContext(ctx, decisionUpdateQuery(prefix),
		claim.Status,
		review.Status, review.DecidedBy, review.DecidedAt, review.Notes,
		claim.ApprovedAt, claim.RejectedAt, claim.UpdatedAt,
		claim.ID)
	if err != nil {
		return fmt.Errorf("claimRepo.UpdateDecision: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}

func (r *claimRepo) ClearRoleApproval(ctx context.Context, claimID uuid.UUID, role domain.UserRole) (bool, error) {
	prefix, err := roleColumnPrefix(string(role))
	if err != nil {
		return false, fmt.Errorf("claimRepo.ClearRoleApproval: %w", err)
	}
	query := fmt.Sprintf(`UPDATE claims SET
			%[1]s_status = 'pending', %[1]s_decided_at = NULL,
			%[1]s_decided_by = NULL, updated_at = $2
		 WHERE id = $1 AND %[1]s_status = 'approved'`, prefix)
	result, err := r.db.ExecContext(ctx, query, claimID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("claimRepo.ClearRoleApproval: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
