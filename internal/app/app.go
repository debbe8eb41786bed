package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/anikor-backend/internal/adapter/postgres"
	reviewrepo "github.com/heartmarshall/anikor-backend/internal/adapter/postgres/review"
	translationrepo "github.com/heartmarshall/anikor-backend/internal/adapter/postgres/translation"
	"github.com/heartmarshall/anikor-backend/internal/adapter/provider/anilist"
	"github.com/heartmarshall/anikor-backend/internal/adapter/provider/llm"
	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/service/catalog"
	"github.com/heartmarshall/anikor-backend/internal/service/review"
	"github.com/heartmarshall/anikor-backend/internal/service/translation"
	"github.com/heartmarshall/anikor-backend/internal/transport/dataloader"
	"github.com/heartmarshall/anikor-backend/internal/transport/rest"
)

// Run loads configuration, wires every component and serves HTTP until ctx
// is cancelled, then drains in-flight requests within the shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Repositories.
	translations := translationrepo.New(pool)
	reviews := reviewrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	// Providers.
	models := llm.NewClient(logger, cfg.Translator)
	if !models.Enabled() {
		logger.Warn("translator api key not set, translations disabled")
	}
	anilistClient := anilist.NewClient(logger, cfg.Catalog)

	// Services.
	store := translation.NewStore(logger, translations, txm)
	translator := translation.NewTranslator(logger, store, models)
	catalogService := catalog.NewService(logger, anilistClient, translator, cfg.Catalog)
	reviewService := review.NewService(logger, reviews)

	handler := newRouter(logger, cfg.CORS, routes{
		anime:  rest.NewAnimeHandler(catalogService, logger, cfg.Cache.PopularTTL),
		review: rest.NewReviewHandler(reviewService, logger),
		health: rest.NewHealthHandler(pool, anilistClient, models, BuildVersion()),
		memo:   dataloader.Middleware(translations),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server, logger)
}

func serve(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
