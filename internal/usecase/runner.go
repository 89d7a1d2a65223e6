package usecase

import (
	"context"
	"fmt"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/ports"
)

// Runner connects the folder watcher with the pipeline use case.
type Runner struct {
	watcher  ports.Watcher
	pipeline *Pipeline
}

// NewRunner returns a helper that feeds watcher events into the pipeline.
func NewRunner(watcher ports.Watcher, pipeline *Pipeline) *Runner {
	return &Runner{watcher: watcher, pipeline: pipeline}
}

// Run blocks until the watcher stops. Each event is processed synchronously,
// so files are handled one at a time in arrival order.
func (r *Runner) Run(ctx context.Context) error {
	if r.watcher == nil || r.pipeline == nil {
		return fmt.Errorf("runner is not configured")
	}

	handler := func(ctx context.Context, event domain.WatchEvent) {
		_ = r.pipeline.Process(ctx, event)
	}

	return r.watcher.Start(ctx, handler)
}
