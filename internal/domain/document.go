package domain

import (
	"path/filepath"
	"time"
)

// WatchEvent is emitted by the folder watcher for every new file.
type WatchEvent struct {
	Path       string
	DetectedAt time.Time
}

// FormatKind enumerates the document families the extractor understands.
type FormatKind string

const (
	KindImage       FormatKind = "image"
	KindText        FormatKind = "text"
	KindPDF         FormatKind = "pdf"
	KindWord        FormatKind = "word"
	KindSlides      FormatKind = "slides"
	KindHTML        FormatKind = "html"
	KindUnsupported FormatKind = "unsupported"
)

// ExtractionResult is the normalized plain-text view of a source file.
// An empty Text with Success set is a valid outcome (nothing legible).
type ExtractionResult struct {
	SourcePath string
	Text       string
	Kind       FormatKind
	Success    bool
	Err        string
	Pages      int
}

// Supported reports whether a handler was found for the file.
func (r ExtractionResult) Supported() bool {
	return r.Kind != KindUnsupported
}

// TranslationResult captures the outcome of a single translation request.
type TranslationResult struct {
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	Success        bool
	Err            string
	Attempts       int
}

// Report is everything the orchestrator knows about one processed file.
type Report struct {
	Event       WatchEvent
	Extraction  ExtractionResult
	Translation *TranslationResult
	ArchivedTo  string
	ArchiveErr  string
}

// FileName returns the base name of the processed file.
func (r Report) FileName() string {
	return filepath.Base(r.Event.Path)
}

// Status condenses the report into a single processing milestone.
func (r Report) Status() ProcessingStatus {
	switch {
	case !r.Extraction.Supported():
		return StatusSkipped
	case !r.Extraction.Success:
		return StatusExtractionFailed
	case r.Translation == nil:
		return StatusNoText
	case !r.Translation.Success:
		return StatusTranslationFailed
	default:
		return StatusTranslated
	}
}

// Failed reports whether extraction or translation went wrong.
func (r Report) Failed() bool {
	switch r.Status() {
	case StatusExtractionFailed, StatusTranslationFailed:
		return true
	}
	return false
}

// ProcessingStatus enumerates pipeline outcomes.
type ProcessingStatus string

const (
	StatusTranslated        ProcessingStatus = "translated"
	StatusNoText            ProcessingStatus = "no_text"
	StatusSkipped           ProcessingStatus = "skipped"
	StatusExtractionFailed  ProcessingStatus = "extraction_failed"
	StatusTranslationFailed ProcessingStatus = "translation_failed"
)

// ProcessedDocument is the audit snapshot written to history storage.
type ProcessedDocument struct {
	FileName       string
	SourcePath     string
	ArchivedPath   string
	Kind           FormatKind
	SourceLanguage string
	TargetLanguage string
	Status         ProcessingStatus
	Error          string
	ProcessedAt    time.Time
}

// NewProcessedDocument flattens a report into its audit row.
func NewProcessedDocument(r Report, at time.Time) ProcessedDocument {
	doc := ProcessedDocument{
		FileName:     r.FileName(),
		SourcePath:   r.Event.Path,
		ArchivedPath: r.ArchivedTo,
		Kind:         r.Extraction.Kind,
		Status:       r.Status(),
		Error:        r.Extraction.Err,
		ProcessedAt:  at,
	}
	if r.Translation != nil {
		doc.SourceLanguage = r.Translation.SourceLanguage
		doc.TargetLanguage = r.Translation.TargetLanguage
		if r.Translation.Err != "" {
			doc.Error = r.Translation.Err
		}
	}
	if r.ArchiveErr != "" {
		doc.Error = r.ArchiveErr
	}
	return doc
}
