package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/folio/internal/adapter/driven/github"
	pdfadapter "github.com/ericfisherdev/folio/internal/adapter/driven/pdf"
	sqliteadapter "github.com/ericfisherdev/folio/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/folio/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/folio/internal/adapter/driving/web"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/config"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"github_account", cfg.GitHubAccount,
		"github_token", cfg.HasGitHubToken(),
		"fetch_timeout", cfg.FetchTimeout,
		"document_timeout", cfg.DocumentTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("migrations complete", "version", version)

	// 5. Load content (embedded defaults unless overridden by file).
	seed, err := application.LoadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}
	profile, err := application.LoadProfile(cfg.ProfileFile)
	if err != nil {
		return err
	}

	// 6. Wire adapters.
	slots := sqliteadapter.NewSlotRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken, slog.Default())
	if !cfg.HasGitHubToken() {
		slog.Info("no github token configured, using unauthenticated rate limits")
	}
	resolver := pdfadapter.NewResolver(&http.Client{}, cfg.DocumentMaxBytes, slog.Default())

	// 7. Create the portfolio (rehydrates theme and certifications).
	portfolio := application.NewPortfolio(ctx, application.PortfolioDeps{
		Slots:           slots,
		GitHub:          ghClient,
		Resolver:        resolver,
		Account:         cfg.GitHubAccount,
		Seed:            seed,
		Profile:         profile,
		DefaultTheme:    model.Theme(cfg.DefaultTheme),
		FetchTimeout:    cfg.FetchTimeout,
		DocumentTimeout: cfg.DocumentTimeout,
		Logger:          slog.Default(),
	})
	defer portfolio.Close()
	slog.Info("portfolio ready",
		"certifications", len(portfolio.Certifications.List()),
		"theme", portfolio.Theme.Current(),
	)

	// 8. Register API and web routes.
	apiHandler := httphandler.NewHandler(portfolio, db, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(portfolio, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
