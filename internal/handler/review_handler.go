package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"insurevis/internal/domain"
	"insurevis/internal/export"
	"insurevis/internal/service"
)

// ReviewHandler handles the car company and insurance company review endpoints.
type ReviewHandler struct {
	claimService        service.ClaimService
	verificationService service.VerificationService
	decisionService     service.DecisionService
	reconciler          service.ReconciliationService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(
	claimService service.ClaimService,
	verificationService service.VerificationService,
	decisionService service.DecisionService,
	reconciler service.ReconciliationService,
) *ReviewHandler {
	return &ReviewHandler{
		claimService:        claimService,
		verificationService: verificationService,
		decisionService:     decisionService,
		reconciler:          reconciler,
	}
}

// ListClaims handles GET /api/v1/reviews/claims
// @Summary List claims for review
// @Description Lists claims with the caller's document counts. Insurance reviewers only see claims the car company has fully verified.
// @Tags reviews
// @Produce json
// @Param status query string false "Claim status filter"
// @Param q query string false "Search claim number, owner name or email"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.ClaimSummary,meta=PagMeta}
// @Failure 403 {object} ErrorResponseBody "Not a reviewer"
// @Security BearerAuth
// @Router /reviews/claims [get]
func (h *ReviewHandler) ListClaims(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	input, ok := listInput(c, role)
	if !ok {
		return
	}

	rows, total, err := h.claimService.ListForReviewer(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, rows, PagMeta{Total: total, Offset: input.Offset, Limit: input.Limit})
}

// ExportClaims handles GET /api/v1/reviews/claims/export
// @Summary Export claims
// @Description Exports the caller's claim list as CSV or XLSX.
// @Tags reviews
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Param status query string false "Claim status filter"
// @Param q query string false "Search claim number, owner name or email"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Security BearerAuth
// @Router /reviews/claims/export [get]
func (h *ReviewHandler) ExportClaims(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	input, ok := listInput(c, role)
	if !ok {
		return
	}

	// Buffer so a failure mid-export still produces a JSON error.
	var buf bytes.Buffer
	if _, err := h.claimService.Export(c.Request.Context(), input, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(string(role)+"_claims", format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// GetClaim handles GET /api/v1/reviews/claims/:id
// @Summary Claim review detail
// @Tags reviews
// @Produce json
// @Param id path string true "Claim ID (UUID)"
// @Success 200 {object} Response{data=service.ClaimDetail}
// @Failure 404 {object} ErrorResponseBody "Claim not found"
// @Security BearerAuth
// @Router /reviews/claims/{id} [get]
func (h *ReviewHandler) GetClaim(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	claimID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}

	detail, err := h.claimService.GetDetail(c.Request.Context(), role, claimID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, detail)
}

// Decide handles POST /api/v1/reviews/claims/:id/decision
// @Summary Decide a claim
// @Description Approve, reject or hold the claim for the caller's role. Approval requires every qualifying document to be verified.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Claim ID (UUID)"
// @Param request body DecideRequest true "Decision"
// @Success 200 {object} Response{data=domain.Claim}
// @Failure 400 {object} ErrorResponseBody "Invalid decision or missing reason"
// @Failure 403 {object} ErrorResponseBody "Invalid role"
// @Failure 409 {object} ErrorResponseBody "Precondition failed or claim locked"
// @Failure 503 {object} ErrorResponseBody "Transient failure"
// @Security BearerAuth
// @Router /reviews/claims/{id}/decision [post]
func (h *ReviewHandler) Decide(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	claimID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	claim, err := h.decisionService.Decide(c.Request.Context(), &service.DecideInput{
		ClaimID:  claimID,
		Role:     role,
		Decision: domain.Decision(strings.ToLower(string(req.Decision))),
		Notes:    req.Notes,
		ActorID:  userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, claim)
}

// VerifyDocuments handles POST /api/v1/reviews/claims/:id/documents/verification
// @Summary Verify several documents
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Claim ID (UUID)"
// @Param request body BatchVerificationRequest true "Documents"
// @Success 200 {object} Response{data=[]domain.Document}
// @Failure 403 {object} ErrorResponseBody "Invalid role"
// @Failure 409 {object} ErrorResponseBody "Claim locked"
// @Security BearerAuth
// @Router /reviews/claims/{id}/documents/verification [post]
func (h *ReviewHandler) VerifyDocuments(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	claimID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}
	var req BatchVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	docs, err := h.verificationService.VerifyDocuments(c.Request.Context(), &service.BatchVerificationInput{
		ClaimID:     claimID,
		Role:        role,
		DocumentIDs: req.DocumentIDs,
		Verified:    *req.Verified,
		ActorID:     userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, docs)
}

// SetVerification handles PUT /api/v1/reviews/documents/:id/verification
// @Summary Verify or un-verify a document
// @Description Un-verifying a document clears the role's approval of its claim.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body SetVerificationRequest true "Verdict"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 403 {object} ErrorResponseBody "Invalid role"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Claim locked"
// @Security BearerAuth
// @Router /reviews/documents/{id}/verification [put]
func (h *ReviewHandler) SetVerification(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}
	var req SetVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	doc, err := h.verificationService.SetVerification(c.Request.Context(), &service.SetVerificationInput{
		DocumentID: docID,
		Role:       role,
		Verified:   *req.Verified,
		ActorID:    userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// RejectDocument handles POST /api/v1/reviews/documents/:id/rejection
// @Summary Reject a document
// @Description The reason code "other" requires a custom reason.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body RejectDocumentRequest true "Reason"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Missing reason"
// @Failure 403 {object} ErrorResponseBody "Invalid role"
// @Failure 409 {object} ErrorResponseBody "Claim locked"
// @Security BearerAuth
// @Router /reviews/documents/{id}/rejection [post]
func (h *ReviewHandler) RejectDocument(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}
	var req RejectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.ReasonCode == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_REASON", "reason_code is required")
		return
	}

	doc, err := h.verificationService.RejectDocument(c.Request.Context(), &service.RejectDocumentInput{
		DocumentID:   docID,
		Role:         role,
		ReasonCode:   req.ReasonCode,
		CustomReason: req.CustomReason,
		ActorID:      userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// RejectionReasons handles GET /api/v1/reviews/rejection-reasons
// @Summary Document rejection reasons
// @Tags reviews
// @Produce json
// @Success 200 {object} Response{data=[]service.RejectionReasonOption}
// @Security BearerAuth
// @Router /reviews/rejection-reasons [get]
func (h *ReviewHandler) RejectionReasons(c *gin.Context) {
	RespondOK(c, h.claimService.RejectionReasons())
}

// ReconcileClaim handles POST /api/v1/admin/claims/:id/reconcile
// @Summary Reconcile one claim
// @Description Demotes approvals that are inconsistent with the claim's documents.
// @Tags admin
// @Produce json
// @Param id path string true "Claim ID (UUID)"
// @Success 200 {object} Response{data=[]domain.ReconciliationAction}
// @Failure 404 {object} ErrorResponseBody "Claim not found"
// @Security BearerAuth
// @Router /admin/claims/{id}/reconcile [post]
func (h *ReviewHandler) ReconcileClaim(c *gin.Context) {
	claimID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}

	actions, err := h.reconciler.ReconcileClaim(c.Request.Context(), claimID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if actions == nil {
		actions = []domain.ReconciliationAction{}
	}

	RespondOK(c, actions)
}

// Sweep handles POST /api/v1/admin/reconcile
// @Summary Reconcile all open claims
// @Tags admin
// @Produce json
// @Success 200 {object} Response{data=service.SweepResult}
// @Security BearerAuth
// @Router /admin/reconcile [post]
func (h *ReviewHandler) Sweep(c *gin.Context) {
	result, err := h.reconciler.Sweep(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// listInput reads the claim list filters shared by listing and export.
func listInput(c *gin.Context, role domain.UserRole) (*service.ListClaimsInput, bool) {
	status := domain.ClaimStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	if status != "" && !status.IsValid() {
		RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "unknown claim status")
		return nil, false
	}
	offset, limit := parsePagination(c)
	return &service.ListClaimsInput{
		Role:   role,
		Status: status,
		Search: strings.TrimSpace(c.Query("q")),
		Offset: offset,
		Limit:  limit,
	}, true
}
