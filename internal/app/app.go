package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/extractor"
	"FolderTranslator/internal/infrastructure/archive"
	"FolderTranslator/internal/infrastructure/console"
	"FolderTranslator/internal/infrastructure/ocr"
	"FolderTranslator/internal/infrastructure/parser"
	"FolderTranslator/internal/infrastructure/scheduler"
	"FolderTranslator/internal/infrastructure/storage"
	"FolderTranslator/internal/infrastructure/telegram"
	"FolderTranslator/internal/infrastructure/translate"
	"FolderTranslator/internal/infrastructure/watcher"
	"FolderTranslator/internal/logging"
	"FolderTranslator/internal/ports"
	"FolderTranslator/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	deps   usecase.PipelineDeps
	watch  *watcher.FolderWatcher
}

// New validates cfg and builds every adapter that needs no I/O.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	engine := ocr.NewTesseract(cfg.OCR)

	registry := extractor.NewRegistry()
	registry.Register(parser.NewImageHandler(engine))
	registry.Register(parser.NewTextHandler())
	registry.Register(parser.NewPDFHandler(engine, cfg.PDF.RenderDPI, baseLogger.With("component", "parser.pdf")))
	registry.Register(parser.NewDocxHandler())
	registry.Register(parser.NewPptxHandler())
	registry.Register(parser.NewHTMLHandler())

	backend, err := translate.New(cfg)
	if err != nil {
		return nil, err
	}
	translator := usecase.NewTranslationService(backend, usecase.TranslationOptions{
		TargetLanguage: cfg.Translator.TargetLanguage,
		Retries:        cfg.Translator.RetryCount(),
		RetryDelay:     cfg.Translator.RetryDelay,
		Logger:         baseLogger.With("component", "translator"),
	})

	reporters := []ports.Reporter{console.NewReporter(nil)}
	if cfg.Notifications.Telegram.Enabled() {
		reporters = append(reporters, telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID))
	}

	deps := usecase.PipelineDeps{
		Extractor:      extractor.NewDispatcher(registry, baseLogger.With("component", "extractor")),
		Translator:     translator,
		Archiver:       archive.NewMover(cfg.ArchiveDir()),
		Reporters:      reporters,
		TargetLanguage: cfg.Translator.TargetLanguage,
		KeepFailed:     cfg.Archive.OnFailure == config.PolicyKeep,
		Logger:         baseLogger.With("component", "pipeline"),
	}

	watch := watcher.New(cfg.Watch.Folder, watcher.Options{
		SettleDelay: cfg.Watch.SettleDelay,
		QueueSize:   cfg.Watch.QueueSize,
		Rescan:      scheduler.NewTickerScheduler(cfg.Watch.RescanInterval),
		Logger:      baseLogger.With("component", "watcher"),
	})

	baseLogger.Info("application configured",
		"folder", cfg.Watch.Folder,
		"archive", cfg.ArchiveDir(),
		"provider", cfg.Translator.Provider,
		"target", cfg.Translator.TargetLanguage,
		"on_failure", cfg.Archive.OnFailure,
		"formats", registry.Extensions(),
	)

	return &Application{cfg: cfg, logger: baseLogger, deps: deps, watch: watch}, nil
}

// Run prepares the folders, connects optional history, and watches until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.Watch.Folder, 0o755); err != nil {
		return fmt.Errorf("create watched folder: %w", err)
	}
	if err := os.MkdirAll(a.cfg.ArchiveDir(), 0o755); err != nil {
		return fmt.Errorf("create archive folder: %w", err)
	}

	deps := a.deps
	if a.cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, a.cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		deps.History = repo
		a.logger.Info("history enabled")
	}

	runner := usecase.NewRunner(a.watch, usecase.NewPipeline(deps))
	return runner.Run(ctx)
}
