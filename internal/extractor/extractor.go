package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/ports"
)

// Dispatcher implements ports.Extractor via registered format handlers.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.Extractor = (*Dispatcher)(nil)

// NewDispatcher wires the handler registry.
func NewDispatcher(reg *Registry, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		logger:   log,
	}
}

// Extract resolves the handler for path and runs it. It always returns a
// result; handler errors and panics are folded into Success=false.
func (d *Dispatcher) Extract(ctx context.Context, path string) (result domain.ExtractionResult) {
	result = domain.ExtractionResult{SourcePath: path, Kind: domain.KindUnsupported}

	if d.registry == nil {
		result.Err = "extractor registry is not configured"
		return result
	}

	handler, err := d.registry.Resolve(path)
	if errors.Is(err, ErrUnsupported) {
		d.debug("skip unsupported file", "path", path)
		return result
	}
	if err != nil {
		result.Err = err.Error()
		return result
	}
	result.Kind = handler.Kind()

	defer func() {
		if rec := recover(); rec != nil {
			result.Success = false
			result.Text = ""
			result.Err = fmt.Sprintf("%s extractor panicked: %v", result.Kind, rec)
		}
	}()

	d.debug("extract", "path", path, "kind", result.Kind)
	extraction, err := handler.Extract(ctx, path)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.Text = strings.TrimSpace(extraction.Text)
	result.Pages = extraction.Units
	result.Success = true
	d.debug("extracted", "path", path, "kind", result.Kind, "units", extraction.Units, "chars", len(result.Text))
	return result
}

func (d *Dispatcher) debug(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
