package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/nswan/lifeweave/internal/cli"
	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/repository"
	"github.com/nswan/lifeweave/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.lifeweave/lifeweave.db
	dbPath := os.Getenv("LIFEWEAVE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".lifeweave", "lifeweave.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	spanRepo := repository.NewSQLiteSpanRepo(database)
	connRepo := repository.NewSQLiteConnectionRepo(database)
	typeRepo := repository.NewSQLiteConnectionTypeRepo(database)
	permRepo := repository.NewSQLitePermissionRepo(database)
	groupRepo := repository.NewSQLiteGroupRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Spans:       service.NewSpanService(spanRepo, connRepo, permRepo, uow),
		Connections: service.NewConnectionService(spanRepo, connRepo, typeRepo, permRepo, uow),
		Graph:       service.NewGraphService(spanRepo, connRepo, typeRepo, permRepo),
		Users:       service.NewUserService(userRepo, groupRepo, spanRepo, permRepo),
		Sessions:    service.NewSessionService(userRepo, groupRepo, sessionRepo),
		Imports:     service.NewImportService(typeRepo, uow),
	}

	// Detect interactive terminal for wizard prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
