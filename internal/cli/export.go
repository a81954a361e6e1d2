package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"insurevis/internal/domain"
	"insurevis/internal/export"
	"insurevis/internal/repository/postgres"
	"insurevis/internal/service"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		role, status, search, fileFormat, output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a reviewer's claim list as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, ok := domain.NormalizeRole(role)
			if !ok || !r.IsReviewer() {
				return fmt.Errorf("--role must be car company or insurance company, got %q", role)
			}
			format, err := export.ParseFormat(fileFormat)
			if err != nil {
				return err
			}
			claimStatus := domain.ClaimStatus(status)
			if claimStatus != "" && !claimStatus.IsValid() {
				return fmt.Errorf("unknown claim status %q", status)
			}

			cfg, db, err := openDB(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewClaimService(
				postgres.NewClaimRepo(db),
				postgres.NewDocumentRepo(db),
				postgres.NewClaimAuditRepo(db),
				service.ReviewOptions{StoreTimeout: cfg.Review.StoreTimeout},
			)

			if output == "" {
				output = export.BuildFilename(string(r)+"_claims", format, time.Now())
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			n, err := svc.Export(cmd.Context(), &service.ListClaimsInput{Role: r, Status: claimStatus, Search: search}, format, w)
			if err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d claims to %s\n", n, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "car_company", "reviewer role whose view is exported")
	cmd.Flags().StringVar(&status, "status", "", "claim status filter")
	cmd.Flags().StringVar(&search, "q", "", "search claim number, owner name or email")
	cmd.Flags().StringVar(&fileFormat, "file-format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")

	return cmd
}
