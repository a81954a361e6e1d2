package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"insurevis/internal/domain"
	"insurevis/internal/events"
	"insurevis/internal/repository/postgres"
	"insurevis/internal/service"
)

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	var claimID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Demote role approvals that are inconsistent with their documents",
		Long: `Reconcile every open claim that has an approved role, or a single claim with --claim.

An approval is demoted to pending when any qualifying document is unverified,
when the role has no qualifying documents, or when the approval carries no
decision timestamp. Approved and rejected claims are only reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDB(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			publisher, err := events.NewPublisher(cfg.Events)
			if err != nil {
				return err
			}
			svc := service.NewReconciliationService(
				postgres.NewClaimRepo(db),
				postgres.NewDocumentRepo(db),
				postgres.NewClaimAuditRepo(db),
				publisher,
				service.ReviewOptions{
					StoreTimeout:    cfg.Review.StoreTimeout,
					BulkConcurrency: cfg.Review.BulkConcurrency,
					SweepBatchSize:  cfg.Review.ReconcileBatchSize,
				},
			)

			out := cmd.OutOrStdout()
			if claimID != "" {
				id, err := uuid.Parse(claimID)
				if err != nil {
					return fmt.Errorf("invalid --claim: %w", err)
				}
				actions, err := svc.ReconcileClaim(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printResult(rootOpts, out, actions, func(w io.Writer) { writeActions(w, id, actions) })
			}

			result, err := svc.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(rootOpts, out, result, func(w io.Writer) {
				fmt.Fprintf(w, "scanned %d claims, demoted %d approvals, %d failed\n",
					result.Scanned, result.Demoted, result.Failed)
			})
		},
	}
	cmd.Flags().StringVar(&claimID, "claim", "", "reconcile a single claim by id")

	return cmd
}

func writeActions(w io.Writer, claimID uuid.UUID, actions []domain.ReconciliationAction) {
	if len(actions) == 0 {
		fmt.Fprintf(w, "claim %s: consistent\n", claimID)
		return
	}
	for _, a := range actions {
		state := "demoted"
		switch {
		case a.Advisory:
			state = "advisory"
		case !a.Applied:
			state = "already cleared"
		}
		fmt.Fprintf(w, "claim %s: %s %s (%s, %d unverified)\n",
			claimID, a.Role, state, a.Reason, len(a.UnverifiedDocumentIDs))
	}
}
