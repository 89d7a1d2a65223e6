package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/extractor"
	"FolderTranslator/internal/infrastructure/ocr"
	"FolderTranslator/internal/ports"
)

// PageSeparator is placed between consecutive PDF pages.
const PageSeparator = "\n\f\n"

const defaultRenderDPI = 300

// pdfDocument is the subset of *fitz.Document the handler needs.
type pdfDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

// PDFHandler extracts the embedded text layer and OCRs pages without one.
type PDFHandler struct {
	ocr    ports.OCR
	dpi    float64
	open   func(path string) (pdfDocument, error)
	logger *slog.Logger
}

var _ extractor.Handler = (*PDFHandler)(nil)

// NewPDFHandler wires OCR and the render resolution used for scanned pages.
func NewPDFHandler(engine ports.OCR, dpi float64, log *slog.Logger) *PDFHandler {
	if dpi <= 0 {
		dpi = defaultRenderDPI
	}
	return &PDFHandler{
		ocr:    engine,
		dpi:    dpi,
		open:   openFitz,
		logger: log,
	}
}

func openFitz(path string) (pdfDocument, error) {
	return fitz.New(path)
}

// Kind identifies the handler inside the registry.
func (h *PDFHandler) Kind() domain.FormatKind { return domain.KindPDF }

// Extensions lists PDF extensions.
func (h *PDFHandler) Extensions() []string { return []string{".pdf"} }

// Extract walks pages in order. Pages without text are valid and contribute
// an empty entry; only an unreadable document fails.
func (h *PDFHandler) Extract(ctx context.Context, path string) (extractor.Extraction, error) {
	doc, err := h.open(path)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	pages := make([]string, 0, total)
	ocrUsable := h.ocr != nil
	var engineErr error

	for n := 0; n < total; n++ {
		if err := ctx.Err(); err != nil {
			return extractor.Extraction{}, err
		}

		text, err := doc.Text(n)
		if err != nil {
			h.warn("page text layer unreadable", "path", path, "page", n+1, "error", err)
		}
		text = strings.TrimSpace(text)

		if text == "" && ocrUsable {
			text, err = h.recognizePage(ctx, doc, n)
			if errors.Is(err, ocr.ErrEngineUnavailable) {
				engineErr = err
				ocrUsable = false
				h.warn("ocr engine unavailable, scanned pages stay empty", "path", path, "error", err)
			} else if err != nil {
				h.warn("page ocr failed", "path", path, "page", n+1, "error", err)
			}
		}

		pages = append(pages, text)
	}

	joined := joinPages(pages)
	if strings.TrimSpace(joined) == "" && engineErr != nil {
		return extractor.Extraction{}, fmt.Errorf("pdf has no text layer: %w", engineErr)
	}

	return extractor.Extraction{Text: joined, Units: total}, nil
}

func (h *PDFHandler) recognizePage(ctx context.Context, doc pdfDocument, n int) (string, error) {
	img, err := doc.ImageDPI(n, h.dpi)
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", n+1, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode page %d: %w", n+1, err)
	}

	text, err := h.ocr.Recognize(ctx, &buf)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func joinPages(pages []string) string {
	return strings.Join(pages, PageSeparator)
}

func (h *PDFHandler) warn(msg string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Warn(msg, args...)
	}
}
