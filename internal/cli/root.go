package cli

import (
	"github.com/spf13/cobra"

	"casedesk/internal/api"
	"casedesk/internal/config"
	"casedesk/internal/repository"
	"casedesk/internal/session"
)

// App holds the wired dependencies used by CLI commands and TUI views.
type App struct {
	Config  config.Config
	Client  *api.Client
	Session *session.Manager
	Recent  repository.RecentCaseRepo

	// IsInteractive reports whether stdin is a terminal; the bare root
	// command only launches the TUI when it is.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "casedesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "casedesk",
		Short: "Terminal workbench for case management",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newWorklistCmd(app),
		newCaseTypesCmd(app),
		newCreateCmd(app),
	)

	return root
}
