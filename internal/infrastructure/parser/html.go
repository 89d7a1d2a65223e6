package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/extractor"
)

// HTMLHandler extracts visible body text from saved web pages.
type HTMLHandler struct{}

var _ extractor.Handler = (*HTMLHandler)(nil)

// NewHTMLHandler builds the HTML handler.
func NewHTMLHandler() *HTMLHandler {
	return &HTMLHandler{}
}

// Kind identifies the handler inside the registry.
func (h *HTMLHandler) Kind() domain.FormatKind { return domain.KindHTML }

// Extensions lists HTML extensions.
func (h *HTMLHandler) Extensions() []string { return []string{".html", ".htm"} }

// Extract drops scripts and styles and returns one line per text block.
func (h *HTMLHandler) Extract(ctx context.Context, path string) (extractor.Extraction, error) {
	file, err := os.Open(path)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("open html: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	lines := normalizeLines(root.Text())
	return extractor.Extraction{Text: strings.Join(lines, "\n"), Units: len(lines)}, nil
}

func normalizeLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
