// Command retranslate re-runs the model over memoized translations and
// overwrites the stored text. It is intended to be invoked by hand or by an
// external cron job, never by the server.
//
// Usage:
//
//	retranslate --source="Attack on Titan" [--kind=title] [--verify]
//	retranslate --older-than=720h [--limit=50] [--kind=free_text]
//
// Exit codes: 0 = every record refreshed, 1 = error or partial failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/anikor-backend/internal/adapter/postgres"
	translationrepo "github.com/heartmarshall/anikor-backend/internal/adapter/postgres/translation"
	"github.com/heartmarshall/anikor-backend/internal/adapter/provider/llm"
	"github.com/heartmarshall/anikor-backend/internal/app"
	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/service/translation"
)

type options struct {
	source     string
	olderThan  time.Duration
	limit      int
	kind       domain.TranslationKind
	verify     bool
	configPath string
}

// validate requires exactly one of source and olderThan.
func (o options) validate() error {
	switch {
	case !o.kind.IsValid():
		return fmt.Errorf("unknown kind %q", o.kind)
	case (o.source == "") == (o.olderThan <= 0):
		return fmt.Errorf("exactly one of --source and --older-than is required")
	case o.limit <= 0:
		return fmt.Errorf("--limit must be positive")
	}
	return nil
}

func main() {
	var (
		opts options
		kind string
	)
	flag.StringVar(&opts.source, "source", "", "exact source text to retranslate")
	flag.DurationVar(&opts.olderThan, "older-than", 0, "retranslate records not updated within this duration")
	flag.IntVar(&opts.limit, "limit", 50, "maximum records to retranslate with --older-than")
	flag.StringVar(&kind, "kind", string(domain.TranslationKindTitle), "prompt strategy: title or free_text")
	flag.BoolVar(&opts.verify, "verify", true, "use two-sample consensus for titles")
	flag.StringVar(&opts.configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	flag.Parse()
	opts.kind = domain.TranslationKind(kind)

	os.Exit(run(opts))
}

// run returns the process exit code so that deferred cleanup always runs.
func run(opts options) int {
	if err := opts.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "retranslate: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: retranslate (--source=TEXT | --older-than=DURATION [--limit=N]) [--kind=title|free_text] [--verify] [--config=PATH]")
		return 1
	}

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath, true)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "retranslate: load config: %v\n", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return 1
	}
	defer pool.Close()

	models := llm.NewClient(logger, cfg.Translator)
	if !models.Enabled() {
		logger.Error("translator api key not set")
		return 1
	}

	repo := translationrepo.New(pool)
	store := translation.NewStore(logger, repo, postgres.NewTxManager(pool))
	translator := translation.NewTranslator(logger, store, models)

	sources := []string{opts.source}
	if opts.source == "" {
		cutoff := time.Now().Add(-opts.olderThan)
		stale, err := repo.ListStale(ctx, cutoff, opts.limit)
		if err != nil {
			logger.Error("list stale translations", slog.String("error", err.Error()))
			return 1
		}
		sources = sources[:0]
		for _, tr := range stale {
			sources = append(sources, tr.SourceText)
		}
		logger.Info("stale translations selected", slog.Int("count", len(sources)), slog.Time("cutoff", cutoff))
	}

	failed := 0
	for _, src := range sources {
		rec, err := translator.Retranslate(ctx, src, opts.kind, opts.verify)
		if err != nil {
			failed++
			logger.Warn("retranslate failed", slog.Int("len", len(src)), slog.String("error", err.Error()))
			continue
		}
		logger.Info("retranslated", slog.Int64("translation_id", rec.ID), slog.String("translated", rec.TranslatedText))
	}

	logger.Info("retranslate completed",
		slog.Int("refreshed", len(sources)-failed),
		slog.Int("failed", failed),
	)
	if failed > 0 {
		return 1
	}
	return 0
}
