package parser

import (
	"context"
	"fmt"
	"os"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/extractor"
	"FolderTranslator/internal/ports"
)

// ImageHandler runs OCR over a whole raster image.
type ImageHandler struct {
	ocr ports.OCR
}

var _ extractor.Handler = (*ImageHandler)(nil)

// NewImageHandler wires the OCR engine.
func NewImageHandler(ocr ports.OCR) *ImageHandler {
	return &ImageHandler{ocr: ocr}
}

// Kind identifies the handler inside the registry.
func (h *ImageHandler) Kind() domain.FormatKind { return domain.KindImage }

// Extensions lists the raster formats tesseract can read.
func (h *ImageHandler) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".gif", ".webp", ".pnm"}
}

// Extract returns the recognized text; an image without text yields "".
func (h *ImageHandler) Extract(ctx context.Context, path string) (extractor.Extraction, error) {
	if h.ocr == nil {
		return extractor.Extraction{}, fmt.Errorf("ocr engine is not configured")
	}

	file, err := os.Open(path)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	text, err := h.ocr.Recognize(ctx, file)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("ocr %s: %w", path, err)
	}

	return extractor.Extraction{Text: text, Units: 1}, nil
}
