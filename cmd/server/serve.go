package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"invoicing-app/internal/adapters/web"
	"invoicing-app/internal/app"
	"invoicing-app/internal/config"
	"invoicing-app/internal/logger"
	"invoicing-app/internal/rdbms"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	log := logger.WithComponent("server")

	client := rdbms.NewClient(cfg.EngineBaseURL, cfg.DatabaseName, cfg.RequestTimeout)
	svc := app.New(client, cfg.SessionTTL)
	handler := web.NewHandler(svc, logger.WithComponent("http"), cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Health(ctx); err != nil {
		// The engine may still be starting; serve anyway and let the
		// health endpoint report the truth.
		log.Warn().Err(err).Str("engine", cfg.EngineBaseURL).Msg("storage engine not reachable yet")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ListenPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("database", cfg.DatabaseName).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
