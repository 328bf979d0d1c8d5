package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"casedesk/internal/cli/formatter"
)

// newCreateCmd starts a new case from the command line.
func newCreateCmd(app *App) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "create <case-type-id>",
		Short: "Create a case of the given type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := make(map[string]any, len(fields))
			for _, f := range fields {
				name, value, ok := strings.Cut(f, "=")
				if !ok || name == "" {
					return fmt.Errorf("invalid --set %q, expected name=value", f)
				}
				content[name] = value
			}
			if len(content) == 0 {
				content = nil
			}

			created, err := app.Client.CreateCase(cmd.Context(), args[0], content)
			if err != nil {
				return fmt.Errorf("creating case: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n",
				formatter.Bold(created.ID), created.Status)
			if created.NextAssignmentID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Next assignment: %s\n", created.NextAssignmentID)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "set", nil, "initial content as name=value (repeatable)")
	return cmd
}
