package parser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/extractor"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// TextHandler reads plain-text files with a tolerant decode.
type TextHandler struct{}

var _ extractor.Handler = (*TextHandler)(nil)

// NewTextHandler builds the plain-text handler.
func NewTextHandler() *TextHandler {
	return &TextHandler{}
}

// Kind identifies the handler inside the registry.
func (h *TextHandler) Kind() domain.FormatKind { return domain.KindText }

// Extensions lists plain-text extensions.
func (h *TextHandler) Extensions() []string { return []string{".txt"} }

// Extract reads the whole file and decodes it.
func (h *TextHandler) Extract(ctx context.Context, path string) (extractor.Extraction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("read text: %w", err)
	}

	text, err := decodeTolerant(raw)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("decode text: %w", err)
	}
	return extractor.Extraction{Text: text, Units: 1}, nil
}

// decodeTolerant honours byte order marks, passes valid UTF-8 through and
// falls back to Windows-1252, which maps every byte.
func decodeTolerant(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, bomUTF8) || bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
