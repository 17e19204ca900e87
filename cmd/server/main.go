package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/unon-ymous/Pay-page/internal/asset"
	"github.com/unon-ymous/Pay-page/internal/bot"
	"github.com/unon-ymous/Pay-page/internal/config"
	"github.com/unon-ymous/Pay-page/internal/logging"
	"github.com/unon-ymous/Pay-page/internal/server"
	"github.com/unon-ymous/Pay-page/internal/store"
)

func setupConfig() *config.Config {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupBot starts the chat component. A failure here degrades to page-only
// mode: the chat path and the page path are independent failure domains.
func setupBot(ctx context.Context, cfg *config.Config, st *store.Store, assets *asset.Store) {
	if !cfg.ChatEnabled() {
		slog.Warn("BOT_TOKEN missing or placeholder, chat component disabled")
		return
	}

	b, err := bot.New(cfg.BotToken, cfg.OwnerID, st, assets)
	if err != nil {
		slog.Error("Failed to start chat bot, continuing without it", "error", err)
		return
	}
	go b.Run(ctx)
}

func runGracefulShutdown(srv *server.Server, stopBot context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		stopBot()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	st := store.New(cfg.ConfigPath(), clock)
	st.Load()

	assets := asset.NewStore(cfg.QRPath())

	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()
	setupBot(botCtx, cfg, st, assets)

	srv, err := server.NewServer(cfg, st, assets, clock)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, stopBot)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
