package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"vinylvault/internal/shared"
)

// loadConfig reloads configuration from the --config flag when the file
// exists, falling back to the runner's current config.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}

	if _, err := os.Stat(configPath); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return r.config
	}
	return config
}

// Setup initializes the database and runs migrations, creating a config file
// from the template when none exists. With --rollback it instead reverts the
// most recent migration.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("rollback") {
		return r.rollback(cmd)
	}

	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	config := r.loadConfig(cmd)
	r.config = config

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// rollback reverts the most recent migration on the configured database.
func (r *Runner) rollback(cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	r.config = config

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r.logger.Warn("rolling back most recent migration", "path", config.Database.Path)
	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	r.logger.Info("rollback complete")
	return nil
}
