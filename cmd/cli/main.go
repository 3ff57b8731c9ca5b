package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akeren/event-rsvp/config"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/pkg/migrations"
	"github.com/akeren/event-rsvp/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		direction := migrations.DirectionUp
		if len(args) > 1 {
			direction = migrations.Direction(strings.ToLower(args[1]))
		}
		if err := runMigrations(logger, direction); err != nil {
			logger.Error("Database migration failed", "direction", string(direction), "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Database migrations completed", "direction", string(direction))

	case "hash-password":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: cli hash-password <password>")
			os.Exit(1)
		}
		fmt.Println(hashPassword(args[1], utils.GetEnvBool("PASSWORD_NORMALIZE", true)))

	case "export":
		if err := runExport(logger, args[1:]); err != nil {
			logger.Error("Export failed", "error", err.Error())
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrations(logger *log.Logger, direction migrations.Direction) error {
	dbCfg := &config.DBConfig{}
	db, err := config.NewDatabase(logger, dbCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Run(ctx, sqlDB, migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Driver: dbCfg.MigrationDriver(),
		Logger: logger,
	}, direction)
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up|down]         Apply (default) or roll back database migrations and exit")
	fmt.Println("  hash-password <password>  Print the digest to set as SUBMIT_PASSWORD_DIGEST or ADMIN_PASSWORD_DIGEST")
	fmt.Println("  export [flags]            Write every submission as CSV (see cli export -h)")
}
