package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"donorsetup/internal/fakebackend"
	"donorsetup/internal/infra"
)

// fakebackend serves the subset of the auth admin and REST APIs the
// provisioning tools use, backed by memory.
func main() {
	dotenvErr := infra.LoadDotEnv()
	cfg := infra.LoadServerConfig()
	logger := infra.NewLogger(cfg).With().Str("cmd", "fakebackend").Logger()
	if dotenvErr != nil {
		logger.Fatal().Err(dotenvErr).Msg("failed to load dotenv files")
	}
	if cfg.ServiceRoleKey == "" {
		logger.Warn().Msg("SUPABASE_SERVICE_ROLE_KEY is empty, accepting any key")
	}

	handler := fakebackend.NewServer(fakebackend.Options{
		ServiceKey: cfg.ServiceRoleKey,
		Logger:     &logger,
	})
	server := infra.NewHTTPServer(cfg, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Msgf("fake backend listening on %s", server.Addr())
	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
