package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"casedesk/internal/api"
	"casedesk/internal/cli"
	"casedesk/internal/config"
	"casedesk/internal/db"
	"casedesk/internal/repository"
	"casedesk/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	if cfg.ServerURL == "" {
		return fmt.Errorf("CASEDESK_SERVER_URL is not set")
	}

	// Determine DB path: env var or default ~/.casedesk/casedesk.db
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".casedesk", "casedesk.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire session state with persistence, restoring any prior sign-in.
	manager := session.NewManager(repository.NewSQLiteSessionStore(database))
	if err := manager.Restore(context.Background()); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewLogObserver(os.Stderr)
	}
	client := api.NewClient(cfg, manager, observer)

	app := &cli.App{
		Config:  cfg,
		Client:  client,
		Session: manager,
		Recent:  repository.NewSQLiteRecentCaseRepo(database),
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
