package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/flowplan/internal/cli"
	"github.com/alexanderramin/flowplan/internal/db"
	"github.com/alexanderramin/flowplan/internal/repository"
	"github.com/alexanderramin/flowplan/internal/rollback"
	"github.com/alexanderramin/flowplan/internal/scheduler"
	"github.com/alexanderramin/flowplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dbPath := os.Getenv("FLOWPLAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".flowplan", "flowplan.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	scheduleRepo := repository.NewSQLiteScheduleRepo(database)

	var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
	if envEnabled("FLOWPLAN_LOG_USECASES") {
		useCaseObserver = service.NewLogUseCaseObserver(os.Stderr)
	}

	scheduleSvc := service.NewScheduleService(scheduleRepo, scheduler.LoadConfig(), rollback.DefaultConfig(), nil, useCaseObserver)

	app := &cli.App{Schedule: scheduleSvc}
	return cli.NewRootCmd(app).Execute()
}

func envEnabled(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
