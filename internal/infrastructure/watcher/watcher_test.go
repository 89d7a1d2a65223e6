package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/infrastructure/scheduler"
)

const quiet = 150 * time.Millisecond

type harness struct {
	dir    string
	events chan string
	cancel context.CancelFunc
	done   chan error
}

func startWatcher(t *testing.T, dir string, onEvent func(path string)) *harness {
	t.Helper()

	h := &harness{
		dir:    dir,
		events: make(chan string, 16),
		done:   make(chan error, 1),
	}

	w := New(dir, Options{
		SettleDelay: 10 * time.Millisecond,
		Rescan:      scheduler.NewTickerScheduler(20 * time.Millisecond),
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	go func() {
		h.done <- w.Start(ctx, func(_ context.Context, ev domain.WatchEvent) {
			if onEvent != nil {
				onEvent(ev.Path)
			}
			h.events <- ev.Path
		})
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-h.done:
			if err != nil {
				t.Errorf("watcher returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("watcher did not stop")
		}
	})
	return h
}

func (h *harness) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-h.events:
		if got != want {
			t.Fatalf("handled %s, want %s", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func (h *harness) expectNone(t *testing.T) {
	t.Helper()
	select {
	case got := <-h.events:
		t.Fatalf("unexpected event for %s", got)
	case <-time.After(quiet):
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func moveToProcessed(dir string) func(string) {
	return func(path string) {
		dest := filepath.Join(dir, "processed")
		_ = os.MkdirAll(dest, 0o755)
		_ = os.Rename(path, filepath.Join(dest, filepath.Base(path)))
	}
}

func TestWatcherHandlesArchivedFileOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := startWatcher(t, dir, moveToProcessed(dir))

	path := filepath.Join(dir, "note.txt")
	writeFile(t, path, "Bonjour")

	h.expect(t, path)
	h.expectNone(t)

	if _, err := os.Stat(filepath.Join(dir, "processed", "note.txt")); err != nil {
		t.Fatalf("archived copy missing: %v", err)
	}
}

func TestWatcherSkipsUnchangedKeptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := startWatcher(t, dir, nil)

	path := filepath.Join(dir, "broken.pdf")
	writeFile(t, path, "not a pdf")

	h.expect(t, path)
	h.expectNone(t)

	writeFile(t, path, "still not a pdf, but different")
	h.expect(t, path)
}

func TestWatcherHandlesFileReplacedDuringHandling(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	archive := moveToProcessed(dir)

	calls := 0
	h := startWatcher(t, dir, func(p string) {
		calls++
		if calls != 1 {
			return
		}
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("stat: %v", err)
			return
		}
		archive(p)
		// same name, size and mtime as the file just archived
		if err := os.WriteFile(p, []byte("first"), 0o600); err != nil {
			t.Errorf("rewrite: %v", err)
			return
		}
		if err := os.Chtimes(p, info.ModTime(), info.ModTime()); err != nil {
			t.Errorf("chtimes: %v", err)
		}
	})

	writeFile(t, path, "first")

	h.expect(t, path)
	h.expect(t, path)
	h.expectNone(t)

	if _, err := os.Stat(filepath.Join(dir, "processed", "scan.png")); err != nil {
		t.Fatalf("first file was not archived: %v", err)
	}
}

func TestWatcherPicksUpBacklogInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "c.txt"} {
		writeFile(t, filepath.Join(dir, name), name)
	}

	h := startWatcher(t, dir, moveToProcessed(dir))

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		h.expect(t, filepath.Join(dir, name))
	}
	h.expectNone(t)
}

func TestWatcherIgnoresSubdirectoriesAndDotfiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	processed := filepath.Join(dir, "processed")
	if err := os.MkdirAll(processed, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(processed, "old.txt"), "done")
	writeFile(t, filepath.Join(dir, ".~lock.report.docx#"), "lock")

	h := startWatcher(t, dir, nil)

	if err := os.Mkdir(filepath.Join(dir, "incoming"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(processed, "new.txt"), "done")

	h.expectNone(t)
}

func TestWatcherMissingDirectory(t *testing.T) {
	t.Parallel()

	w := New(filepath.Join(t.TempDir(), "absent"), Options{})
	err := w.Start(context.Background(), func(context.Context, domain.WatchEvent) {})
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestWatcherRequiresHandler(t *testing.T) {
	t.Parallel()

	if err := New(t.TempDir(), Options{}).Start(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}
