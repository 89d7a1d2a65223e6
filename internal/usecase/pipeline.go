package usecase

import (
	"context"
	"log/slog"
	"time"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/logging"
	"FolderTranslator/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Extractor      ports.Extractor
	Translator     ports.Translator
	Archiver       ports.Archiver
	Reporters      []ports.Reporter
	History        ports.HistoryRepository
	TargetLanguage string
	// KeepFailed leaves failed and unsupported files in the watched folder
	// instead of archiving them.
	KeepFailed bool
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline implements the per-file extract → translate → report → archive workflow.
type Pipeline struct {
	extractor  ports.Extractor
	translator ports.Translator
	archiver   ports.Archiver
	reporters  []ports.Reporter
	history    ports.HistoryRepository
	target     string
	keepFailed bool
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		extractor:  deps.Extractor,
		translator: deps.Translator,
		archiver:   deps.Archiver,
		reporters:  deps.Reporters,
		history:    deps.History,
		target:     deps.TargetLanguage,
		keepFailed: deps.KeepFailed,
		logger:     logger,
		now:        now,
	}
}

// Process runs one file through the pipeline. Every failure is folded into
// the returned report; none of them is fatal to the caller.
func (p *Pipeline) Process(ctx context.Context, event domain.WatchEvent) domain.Report {
	report := domain.Report{Event: event}

	if p.extractor == nil {
		report.Extraction = domain.ExtractionResult{SourcePath: event.Path, Kind: domain.KindUnsupported}
	} else {
		report.Extraction = p.extractor.Extract(ctx, event.Path)
	}

	if report.Extraction.Success && report.Extraction.Text != "" && p.translator != nil {
		translation := p.translator.Translate(ctx, report.Extraction.Text, p.target)
		report.Translation = &translation
	}

	p.log(report)
	p.publish(ctx, report)

	if ctx.Err() != nil {
		p.logger.Warn("pipeline interrupted, file left in place", "file", report.FileName())
		return report
	}

	if p.shouldArchive(report) {
		p.archive(&report)
	}

	p.record(ctx, report)
	return report
}

func (p *Pipeline) shouldArchive(report domain.Report) bool {
	if p.archiver == nil {
		return false
	}
	if !p.keepFailed {
		return true
	}
	return report.Extraction.Supported() && !report.Failed()
}

func (p *Pipeline) archive(report *domain.Report) {
	dest, err := p.archiver.Archive(report.Event.Path)
	if err != nil {
		report.ArchiveErr = err.Error()
		p.logger.Error("archive failed, file left in place", "file", report.FileName(), "path", report.Event.Path, "error", err)
		return
	}
	report.ArchivedTo = dest
	p.logger.Info("archived", "file", report.FileName(), "to", dest)
}

func (p *Pipeline) publish(ctx context.Context, report domain.Report) {
	for _, reporter := range p.reporters {
		if reporter == nil {
			continue
		}
		if err := reporter.Report(ctx, report); err != nil {
			p.logger.Warn("report delivery failed", "file", report.FileName(), "error", err)
		}
	}
}

func (p *Pipeline) record(ctx context.Context, report domain.Report) {
	if p.history == nil || !report.Extraction.Supported() {
		return
	}
	if err := p.history.SaveProcessed(ctx, domain.NewProcessedDocument(report, p.now())); err != nil {
		p.logger.Warn("history write failed", "file", report.FileName(), "error", err)
	}
}

func (p *Pipeline) log(report domain.Report) {
	ext := report.Extraction
	switch report.Status() {
	case domain.StatusSkipped:
		p.logger.Debug("unsupported file skipped", "file", report.FileName())
	case domain.StatusExtractionFailed:
		p.logger.Error("extraction failed", "file", report.FileName(), "kind", ext.Kind, "error", ext.Err)
	case domain.StatusNoText:
		p.logger.Info("no text found", "file", report.FileName(), "kind", ext.Kind)
	case domain.StatusTranslationFailed:
		p.logger.Error("translation failed", "file", report.FileName(), "attempts", report.Translation.Attempts, "error", report.Translation.Err)
	default:
		p.logger.Info("translated", "file", report.FileName(), "kind", ext.Kind, "source", report.Translation.SourceLanguage, "target", report.Translation.TargetLanguage)
	}
}
