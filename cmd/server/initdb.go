package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"invoicing-app/internal/config"
	"invoicing-app/internal/logger"
	"invoicing-app/internal/rdbms"
	"invoicing-app/internal/schema"
)

func initDBCmd(cfg *config.Config) *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the database, apply the schema, and optionally load the demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDB(cmd.Context(), cfg, withSeed)
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", true, "load the demo dataset after creating the schema")
	return cmd
}

func initDB(ctx context.Context, cfg *config.Config, withSeed bool) error {
	log := logger.WithComponent("init-db")
	client := rdbms.NewClient(cfg.EngineBaseURL, cfg.DatabaseName, cfg.RequestTimeout)

	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("storage engine at %s: %w", cfg.EngineBaseURL, err)
	}

	exists, err := client.DatabaseExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if err := client.CreateDatabase(ctx); err != nil {
			return err
		}
		log.Info().Str("database", cfg.DatabaseName).Msg("database created")
	}

	for _, stmt := range schema.Statements() {
		if _, err := client.Execute(ctx, stmt); err != nil {
			// Re-running init against an initialized store is fine.
			if errors.Is(err, rdbms.ErrConstraint) || isAlreadyExists(err) {
				continue
			}
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Info().Int("tables", len(schema.Statements())).Msg("schema applied")

	if !withSeed {
		return nil
	}

	// Skip seeding when the demo user is already present.
	res, err := client.Execute(ctx,
		"SELECT id FROM users WHERE email = "+rdbms.Quote(schema.DemoEmail))
	if err == nil && len(res.Data) > 0 {
		log.Info().Msg("demo dataset already loaded, skipping seed")
		return nil
	}

	stmts, err := schema.Seed(time.Now())
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := client.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
	}
	log.Info().Int("statements", len(stmts)).Str("demo_user", schema.DemoEmail).Msg("demo dataset loaded")
	return nil
}

func isAlreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}
