package usecase

import (
	"context"
	"testing"

	"FolderTranslator/internal/domain"
)

type replayWatcher struct {
	events []domain.WatchEvent
}

func (w replayWatcher) Start(ctx context.Context, handler func(context.Context, domain.WatchEvent)) error {
	for _, ev := range w.events {
		handler(ctx, ev)
	}
	return nil
}

func TestRunnerProcessesEventsInOrder(t *testing.T) {
	t.Parallel()

	archiver := &fakeArchiver{}
	p := NewPipeline(PipelineDeps{
		Extractor: fakeExtractor{result: domain.ExtractionResult{Kind: domain.KindImage, Success: true}},
		Archiver:  archiver,
	})

	watcher := replayWatcher{events: []domain.WatchEvent{event("a.png"), event("b.png"), event("c.png")}}
	if err := NewRunner(watcher, p).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"/watch/a.png", "/watch/b.png", "/watch/c.png"}
	if len(archiver.archived) != len(want) {
		t.Fatalf("unexpected archived files: %v", archiver.archived)
	}
	for i := range want {
		if archiver.archived[i] != want[i] {
			t.Fatalf("order mismatch: %v", archiver.archived)
		}
	}
}

func TestRunnerRequiresDependencies(t *testing.T) {
	t.Parallel()

	if err := NewRunner(nil, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected configuration error")
	}
}
