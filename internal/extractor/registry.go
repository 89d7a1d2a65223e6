package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"FolderTranslator/internal/domain"
)

// ErrUnsupported is returned when no handler is registered for an extension.
var ErrUnsupported = errors.New("unsupported format")

// Extraction is what a handler produces for a single file.
// Units counts the pages, slides or paragraphs that were aggregated.
type Extraction struct {
	Text  string
	Units int
}

// Handler captures a single format implementation (image, pdf, docx, etc.).
type Handler interface {
	Kind() domain.FormatKind
	Extensions() []string
	Extract(ctx context.Context, path string) (Extraction, error)
}

// Registry keeps a mapping from file extensions to their handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register adds or replaces a handler for every extension it declares.
func (r *Registry) Register(handler Handler) {
	if r.handlers == nil {
		r.handlers = map[string]Handler{}
	}
	for _, ext := range handler.Extensions() {
		r.handlers[normalizeExt(ext)] = handler
	}
}

// Resolve returns the handler for a path's extension or ErrUnsupported.
func (r *Registry) Resolve(path string) (Handler, error) {
	ext := normalizeExt(filepath.Ext(path))
	if handler, ok := r.handlers[ext]; ok {
		return handler, nil
	}
	return nil, fmt.Errorf("extension %q: %w", ext, ErrUnsupported)
}

// Extensions lists every registered extension in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.handlers))
	for ext := range r.handlers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
