package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/listkeeper/listkeeper/internal/api"
	"github.com/listkeeper/listkeeper/internal/assistant"
	"github.com/listkeeper/listkeeper/internal/assistant/azure"
	"github.com/listkeeper/listkeeper/internal/assistant/gemini"
	"github.com/listkeeper/listkeeper/internal/config"
	"github.com/listkeeper/listkeeper/internal/persist"
	"github.com/listkeeper/listkeeper/internal/persist/memory"
	"github.com/listkeeper/listkeeper/internal/persist/redisstore"
	"github.com/listkeeper/listkeeper/internal/persist/sqlite"
	"github.com/listkeeper/listkeeper/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting shopping list server")

	// Open the persistence gateway
	ctx := context.Background()
	gw, closeGW, err := openGateway(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer closeGW()

	// Restore state and make sure a chat session exists for the page
	st := store.New(ctx, gw, log.Logger)
	if st.Recovered() {
		log.Warn().Msg("Previous state could not be restored, starting fresh")
	}
	if _, err := st.EnsureActiveSession(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed chat session")
	}

	// Register assistant providers
	router := assistant.NewRouter(cfg.Assistant.DefaultProvider)
	azureProvider := azure.NewProvider(cfg.Azure)
	if azureProvider.IsConfigured() {
		router.RegisterProvider(azureProvider)
	} else {
		log.Warn().Msg("Azure OpenAI settings missing, azure provider unavailable")
	}
	if cfg.Assistant.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Assistant.Gemini))
	}
	log.Info().Strs("providers", router.ListProviders()).Msg("Assistant providers registered")

	mediator := assistant.NewMediator(st, router, log.Logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, st, mediator),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// setupLogger configures zerolog: console output outside production, an
// optional rotating file sink when logging.file is set.
func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if cfg.File != "" {
		writer, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to open log file, logging to stderr")
		} else {
			log.Logger = log.Output(writer)
			return
		}
	}

	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openGateway builds the configured persistence backend.
func openGateway(ctx context.Context, cfg config.StorageConfig) (persist.Gateway, func(), error) {
	switch cfg.Driver {
	case "sqlite", "":
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "redis":
		s, err := redisstore.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "memory":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
