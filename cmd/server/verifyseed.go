package main

import (
	"github.com/spf13/cobra"

	"invoicing-app/internal/config"
	"invoicing-app/internal/logger"
	"invoicing-app/internal/rdbms"
	"invoicing-app/internal/schema"
)

func verifySeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-seed",
		Short: "Check that every stored invoice agrees with its derived totals and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("verify-seed")
			client := rdbms.NewClient(cfg.EngineBaseURL, cfg.DatabaseName, cfg.RequestTimeout)

			if err := schema.Verify(cmd.Context(), client); err != nil {
				return err
			}
			log.Info().Msg("all invoices consistent")
			return nil
		},
	}
}
