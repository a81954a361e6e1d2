package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/export"
	"insurevis/internal/port"
)

const (
	exportPageSize = 500
	maxExportRows  = 10000
	auditTrailSize = 100
)

// ListClaimsInput is the DTO for a reviewer's claim listing.
type ListClaimsInput struct {
	Role   domain.UserRole
	Status domain.ClaimStatus
	Search string
	Offset int
	Limit  int
}

// ClaimDetail is one claim as presented to a reviewer role.
type ClaimDetail struct {
	Claim            *domain.Claim            `json:"claim"`
	StatusLabel      string                   `json:"status_label"`
	Reviewable       []domain.Document        `json:"reviewable_documents"`
	ViewOnly         []domain.Document        `json:"view_only_documents"`
	Documents        domain.DocumentCounts    `json:"document_counts"`
	Eligible         bool                     `json:"eligible"`
	ReadyForApproval bool                     `json:"ready_for_approval"`
	Unverified       []uuid.UUID              `json:"unverified_document_ids"`
	Audit            []domain.ClaimAuditEntry `json:"audit"`
}

// RejectionReasonOption is one entry of the document rejection vocabulary.
type RejectionReasonOption struct {
	Code  domain.RejectionReasonCode `json:"code"`
	Label string                     `json:"label"`
}

// ClaimService defines the reviewer-facing claim read contract.
type ClaimService interface {
	ListForReviewer(ctx context.Context, input *ListClaimsInput) ([]domain.ClaimSummary, int, error)
	GetDetail(ctx context.Context, role domain.UserRole, claimID uuid.UUID) (*ClaimDetail, error)
	Export(ctx context.Context, input *ListClaimsInput, format export.Format, w io.Writer) (int, error)
	RejectionReasons() []RejectionReasonOption
}

type claimService struct {
	claimRepo port.ClaimRepository
	docRepo   port.DocumentRepository
	auditRepo port.ClaimAuditRepository
	opts      ReviewOptions
}

// NewClaimService creates a new ClaimService implementation.
func NewClaimService(
	claimRepo port.ClaimRepository,
	docRepo port.DocumentRepository,
	auditRepo port.ClaimAuditRepository,
	opts ReviewOptions,
) ClaimService {
	return &claimService{
		claimRepo: claimRepo,
		docRepo:   docRepo,
		auditRepo: auditRepo,
		opts:      opts,
	}
}

func (s *claimService) ListForReviewer(ctx context.Context, input *ListClaimsInput) ([]domain.ClaimSummary, int, error) {
	if !input.Role.IsReviewer() {
		return nil, 0, domain.ErrInvalidRole
	}
	filter := domain.ClaimFilter{Status: input.Status, Search: input.Search}
	// Insurance only sees claims the car company has finished with.
	if domain.UpstreamRole(input.Role) != "" {
		filter.EligibleFor = input.Role
	}

	timeout := s.opts.storeTimeout()
	type page struct {
		rows  []domain.ClaimListRow
		total int
	}
	p, err := storeCall(ctx, timeout, "listing claims", func(ctx context.Context) (page, error) {
		rows, total, err := s.claimRepo.List(ctx, filter, input.Offset, input.Limit)
		return page{rows, total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	summaries, err := s.summarize(ctx, p.rows, input.Role)
	if err != nil {
		return nil, 0, err
	}
	return summaries, p.total, nil
}

// summarize loads the documents of all rows in one query and builds role's view.
func (s *claimService) summarize(ctx context.Context, rows []domain.ClaimListRow, role domain.UserRole) ([]domain.ClaimSummary, error) {
	if len(rows) == 0 {
		return []domain.ClaimSummary{}, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	docs, err := storeCall(ctx, s.opts.storeTimeout(), "loading claim documents", func(ctx context.Context) ([]domain.Document, error) {
		return s.docRepo.ListByClaimIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	byClaim := make(map[uuid.UUID][]domain.Document, len(rows))
	for i := range docs {
		byClaim[docs[i].ClaimID] = append(byClaim[docs[i].ClaimID], docs[i])
	}

	out := make([]domain.ClaimSummary, len(rows))
	for i := range rows {
		out[i] = domain.SummarizeClaim(rows[i], byClaim[rows[i].ID], role)
	}
	return out, nil
}

func (s *claimService) GetDetail(ctx context.Context, role domain.UserRole, claimID uuid.UUID) (*ClaimDetail, error) {
	if !role.IsReviewer() {
		return nil, domain.ErrInvalidRole
	}
	timeout := s.opts.storeTimeout()
	claim, err := storeCall(ctx, timeout, "loading claim", func(ctx context.Context) (*domain.Claim, error) {
		return s.claimRepo.GetByID(ctx, claimID)
	})
	if err != nil {
		return nil, err
	}
	docs, err := storeCall(ctx, timeout, "loading claim documents", func(ctx context.Context) ([]domain.Document, error) {
		return s.docRepo.ListByClaim(ctx, claimID)
	})
	if err != nil {
		return nil, err
	}
	audit, err := storeCall(ctx, timeout, "loading audit trail", func(ctx context.Context) ([]domain.ClaimAuditEntry, error) {
		entries, _, err := s.auditRepo.ListByClaim(ctx, claimID, 0, auditTrailSize)
		return entries, err
	})
	if err != nil {
		return nil, err
	}

	detail := &ClaimDetail{
		Claim:            claim,
		StatusLabel:      claim.Status.Label(),
		Reviewable:       []domain.Document{},
		ViewOnly:         []domain.Document{},
		Documents:        domain.CountDocuments(docs, role),
		Eligible:         domain.IsEligibleForNextStage(claim, docs, role),
		ReadyForApproval: domain.ReadyForApproval(docs, role),
		Unverified:       domain.UnverifiedQualifying(docs, role),
		Audit:            audit,
	}
	for i := range docs {
		if role.CanVerify(docs[i].Type) {
			detail.Reviewable = append(detail.Reviewable, docs[i])
		} else {
			detail.ViewOnly = append(detail.ViewOnly, docs[i])
		}
	}
	return detail, nil
}

func (s *claimService) Export(ctx context.Context, input *ListClaimsInput, format export.Format, w io.Writer) (int, error) {
	var all []domain.ClaimSummary
	for offset := 0; len(all) < maxExportRows; offset += exportPageSize {
		page, total, err := s.ListForReviewer(ctx, &ListClaimsInput{
			Role:   input.Role,
			Status: input.Status,
			Search: input.Search,
			Offset: offset,
			Limit:  exportPageSize,
		})
		if err != nil {
			return 0, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize || offset+len(page) >= total {
			break
		}
	}
	if len(all) > maxExportRows {
		all = all[:maxExportRows]
	}
	if err := export.Write(w, format, all); err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *claimService) RejectionReasons() []RejectionReasonOption {
	out := make([]RejectionReasonOption, len(domain.RejectionReasonCodes))
	for i, code := range domain.RejectionReasonCodes {
		out[i] = RejectionReasonOption{Code: code, Label: code.Label()}
	}
	return out
}
