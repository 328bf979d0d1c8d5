package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"casedesk/internal/cli/formatter"
)

// newWorklistCmd prints the operator's pending assignments as a table.
func newWorklistCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "worklist",
		Short: "List pending assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Client.Worklist(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching worklist: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No assignments waiting."))
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					formatter.UrgencyBadge(item.Urgency),
					item.Name,
					item.CaseID,
					formatter.StatusPill(item.Status),
					formatter.PlatformTime(item.CreateTime),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(),
				formatter.RenderTable([]string{"Urg", "Assignment", "Case", "Status", "Created"}, rows))
			return nil
		},
	}
}

// newCaseTypesCmd prints the case types the operator can create.
func newCaseTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "casetypes",
		Short: "List creatable case types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.Client.CaseTypes(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching case types: %w", err)
			}
			rows := make([][]string, 0, len(types))
			for _, t := range types {
				rows = append(rows, []string{t.ID, t.Name, formatter.Dim(t.Description)})
			}
			fmt.Fprint(cmd.OutOrStdout(),
				formatter.RenderTable([]string{"ID", "Name", "Description"}, rows))
			return nil
		},
	}
}
