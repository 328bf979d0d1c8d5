package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"casedesk/internal/cli/formatter"
)

// newLoginCmd authenticates and persists the session for later runs.
func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tokens, err := app.Client.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("signing in: %w", err)
			}
			app.Session.SetTokens(ctx, tokens)

			op, err := app.Client.OperatorInfo(ctx)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
				return nil
			}
			app.Session.SetOperator(ctx, op)
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", op.Name, op.AccessGroup)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "operator id")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// newLogoutCmd clears the persisted session.
func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

// newWhoamiCmd prints the stored operator record.
func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, ok := app.Session.Operator()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Not signed in."))
				return nil
			}
			pairs := [][2]string{
				{"Operator", op.Name},
				{"ID", op.OperatorID},
				{"Email", op.Email},
				{"Access Group", op.AccessGroup},
			}
			if len(op.Roles) > 0 {
				pairs = append(pairs, [2]string{"Roles", strings.Join(op.Roles, ", ")})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderKV(pairs))
			return nil
		},
	}
}
