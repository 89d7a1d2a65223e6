package console

import (
	"context"
	"log"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/infrastructure/translate"
	"FolderTranslator/internal/ports"
	"FolderTranslator/pkg/logger"
)

// Reporter prints a human-readable block per processed file.
type Reporter struct {
	out *log.Logger
}

var _ ports.Reporter = (*Reporter)(nil)

// NewReporter writes through out, or a stdout "report" logger when nil.
func NewReporter(out *log.Logger) *Reporter {
	if out == nil {
		out = logger.New("report")
	}
	return &Reporter{out: out}
}

// Report prints the outcome. Unsupported files produce no output.
func (r *Reporter) Report(_ context.Context, report domain.Report) error {
	ext := report.Extraction
	name := report.FileName()

	switch report.Status() {
	case domain.StatusSkipped:
		return nil
	case domain.StatusExtractionFailed:
		r.out.Printf("%s (%s): could not extract text: %s", name, ext.Kind, ext.Err)
		return nil
	case domain.StatusNoText:
		r.out.Printf("%s (%s): No text could be detected", name, ext.Kind)
		return nil
	}

	tr := report.Translation
	r.out.Printf("%s (%s): extracted text:\n%s", name, ext.Kind, ext.Text)
	if !tr.Success {
		r.out.Printf("%s: translation failed after %d attempt(s): %s", name, tr.Attempts, tr.Err)
		return nil
	}
	r.out.Printf("%s: detected language: %s", name, translate.LanguageName(tr.SourceLanguage))
	r.out.Printf("%s: translation (%s):\n%s", name, tr.TargetLanguage, tr.TranslatedText)
	return nil
}
