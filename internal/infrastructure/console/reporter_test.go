package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"FolderTranslator/internal/domain"
	"FolderTranslator/pkg/logger"
)

func render(t *testing.T, report domain.Report) string {
	t.Helper()

	var buf bytes.Buffer
	r := NewReporter(logger.NewWithWriter(&buf, "report"))
	if err := r.Report(context.Background(), report); err != nil {
		t.Fatalf("report: %v", err)
	}
	return buf.String()
}

func TestReportTranslated(t *testing.T) {
	t.Parallel()

	out := render(t, domain.Report{
		Event:      domain.WatchEvent{Path: "/watch/note.txt"},
		Extraction: domain.ExtractionResult{Kind: domain.KindText, Success: true, Text: "Bonjour"},
		Translation: &domain.TranslationResult{
			Success:        true,
			OriginalText:   "Bonjour",
			TranslatedText: "Hello",
			SourceLanguage: "fr",
			TargetLanguage: "en",
			Attempts:       1,
		},
	})

	for _, want := range []string{"[report] ", "note.txt (text)", "Bonjour", "detected language: French", "Hello"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}
}

func TestReportTranslationFailureKeepsOriginalText(t *testing.T) {
	t.Parallel()

	out := render(t, domain.Report{
		Event:       domain.WatchEvent{Path: "/watch/scan.png"},
		Extraction:  domain.ExtractionResult{Kind: domain.KindImage, Success: true, Text: "Hola"},
		Translation: &domain.TranslationResult{OriginalText: "Hola", Err: "quota exceeded", Attempts: 2},
	})

	for _, want := range []string{"Hola", "translation failed after 2 attempt(s): quota exceeded"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}
}

func TestReportNoTextAndFailures(t *testing.T) {
	t.Parallel()

	noText := render(t, domain.Report{
		Event:      domain.WatchEvent{Path: "/watch/blank.png"},
		Extraction: domain.ExtractionResult{Kind: domain.KindImage, Success: true},
	})
	if !strings.Contains(noText, "No text could be detected") {
		t.Fatalf("unexpected output %q", noText)
	}

	failed := render(t, domain.Report{
		Event:      domain.WatchEvent{Path: "/watch/broken.docx"},
		Extraction: domain.ExtractionResult{Kind: domain.KindWord, Err: "zip: not a valid zip file"},
	})
	if !strings.Contains(failed, "could not extract text: zip: not a valid zip file") {
		t.Fatalf("unexpected output %q", failed)
	}
}

func TestReportUnsupportedIsSilent(t *testing.T) {
	t.Parallel()

	out := render(t, domain.Report{
		Event:      domain.WatchEvent{Path: "/watch/archive.7z"},
		Extraction: domain.ExtractionResult{Kind: domain.KindUnsupported},
	})
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}
