package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"insurevis/internal/repository/postgres"
	"insurevis/internal/service"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage portal accounts",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var input service.CreateUserInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a portal account (bootstraps the first admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.ConfirmPassword == "" {
				input.ConfirmPassword = input.Password
			}
			_, db, err := openDB(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := service.NewUserService(postgres.NewUserRepo(db)).Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printResult(rootOpts, cmd.OutOrStdout(), user, func(w io.Writer) {
				fmt.Fprintf(w, "created %s account %s (%s)\n", user.Role, user.Email, user.ID)
			})
		},
	}
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password (min 8 characters)")
	cmd.Flags().StringVar(&input.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&input.Role, "role", "admin", "role: admin, car company or insurance company")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
