package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yt-summarizer/internal/auth"
	"yt-summarizer/internal/config"
	"yt-summarizer/internal/db"
	"yt-summarizer/internal/handlers"
	"yt-summarizer/internal/logging"
	"yt-summarizer/internal/metrics"
	"yt-summarizer/internal/subscriptions"
	"yt-summarizer/internal/summary"
	"yt-summarizer/internal/youtube"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "yt-summarizer",
		Short:        "YouTube search, subscription and summary API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default $CONFIG_FILE)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(db.Up), string(db.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(configPath, db.Direction(args[0]))
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

func runMigrate(configPath string, dir db.Direction) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)

	databaseURL := cfg.DatabaseURL()
	if databaseURL == "" {
		return fmt.Errorf("missing required configuration: DATABASE_URL")
	}
	if err := db.Migrate(databaseURL, dir); err != nil {
		return err
	}
	logger.Info().Str("direction", string(dir)).Msg("migrations applied")
	return nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, closeDB, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		return err
	}
	defer closeDB()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// writeTimeout covers the slowest request. A summary fetches the transcript
// and then the video details, each under the upstream timeout, before it
// generates.
func writeTimeout(cfg *config.Config) time.Duration {
	return cfg.Gemini.Timeout + 2*cfg.YouTube.Timeout + 10*time.Second
}

// buildHandler connects every dependency and returns the routed API. The
// returned func closes the database pool.
func buildHandler(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL(), db.Up); err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("database migrated")
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}

	handler, err := wire(ctx, cfg, logger, db.NewSubscriptionStore(conn))
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return handler, closeDB, nil
}

func wire(ctx context.Context, cfg *config.Config, logger zerolog.Logger, store *db.SubscriptionStore) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	videos, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, youtube.ClientOptions{
		RegionCode:      cfg.YouTube.RegionCode,
		MaxResultsLimit: cfg.YouTube.MaxResultsLimit,
		Timeout:         cfg.YouTube.Timeout,
		Metrics:         m,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	transcripts := youtube.NewTranscriptFetcher(
		youtube.NewPlayerCaptions(&http.Client{Timeout: cfg.YouTube.Timeout}),
		cfg.YouTube.Timeout, m, logger,
	)

	model, err := summary.NewGeminiModel(ctx, summary.GeminiOptions{
		APIKey:   cfg.Gemini.APIKey,
		Project:  cfg.Gemini.Project,
		Location: cfg.Gemini.Location,
		Model:    cfg.Gemini.Model,
	})
	if err != nil {
		return nil, err
	}
	summaries := summary.NewGenerator(videos, transcripts, model, cfg.Gemini.Timeout, m, logger)

	tokens, err := auth.NewFirebaseVerifier(ctx, auth.FirebaseOptions{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
		PrivateKeyID:    cfg.Firebase.PrivateKeyID,
		PrivateKey:      cfg.Firebase.PrivateKey,
		ClientEmail:     cfg.Firebase.ClientEmail,
		ClientID:        cfg.Firebase.ClientID,
		AuthURI:         cfg.Firebase.AuthURI,
		TokenURI:        cfg.Firebase.TokenURI,
		CertURL:         cfg.Firebase.CertURL,
		CheckRevoked:    cfg.Firebase.CheckRevoked,
	})
	if err != nil {
		return nil, err
	}

	subs := subscriptions.NewService(store, videos, logger)

	h := handlers.New(videos, summaries, subs, store)
	return h.Router(handlers.RouterOptions{
		Verifier:   auth.NewVerifier(tokens),
		Logger:     logger,
		Metrics:    m,
		Gatherer:   reg,
		CORSOrigin: cfg.CORSOrigin,
	}), nil
}
