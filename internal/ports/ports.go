package ports

import (
	"context"
	"io"
	"time"

	"FolderTranslator/internal/domain"
)

// Extractor turns a file on disk into plain text. It never returns an
// error: failures are described by the result.
type Extractor interface {
	Extract(ctx context.Context, path string) domain.ExtractionResult
}

// OCR recognizes text in an encoded raster image.
type OCR interface {
	Recognize(ctx context.Context, image io.Reader) (string, error)
}

// TextTranslator is a single translation backend (Google, LibreTranslate, LLM).
type TextTranslator interface {
	Translate(ctx context.Context, text, target string) (translated, sourceLang string, err error)
}

// Translator is the failure-tolerant translation boundary used by the pipeline.
type Translator interface {
	Translate(ctx context.Context, text, target string) domain.TranslationResult
}

// Archiver moves processed files out of the watched set.
type Archiver interface {
	Archive(path string) (string, error)
}

// Reporter publishes per-file results (console, Telegram, etc.).
type Reporter interface {
	Report(ctx context.Context, report domain.Report) error
}

// HistoryRepository keeps an audit trail of processed documents.
type HistoryRepository interface {
	SaveProcessed(ctx context.Context, doc domain.ProcessedDocument) error
}

// Watcher delivers new-file events to a synchronous handler until ctx ends.
type Watcher interface {
	Start(ctx context.Context, handler func(context.Context, domain.WatchEvent)) error
}

// Scheduler controls when periodic jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
