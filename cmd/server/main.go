package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"invoicing-app/internal/config"
	"invoicing-app/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "invoicing-server",
	Short: "Invoicing API server backed by a remote storage engine",
	Long: `invoicing-server runs the invoicing REST API. All persistence is
delegated to a remote relational engine reached over HTTP; the server
itself holds no durable state.

Configuration comes from the environment (or a .env file). See
.env.example for the full list of variables.`,
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(serveCmd(cfg), initDBCmd(cfg), verifySeedCmd(cfg))
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
