package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/logging"
	"FolderTranslator/internal/ports"
)

const defaultQueueSize = 64

// Options tunes the folder watcher.
type Options struct {
	// SettleDelay is the pause between two size probes; a file is handed
	// over only once both probes agree.
	SettleDelay time.Duration
	QueueSize   int
	// Rescan drives the directory scan. Without it the directory is
	// scanned once on start.
	Rescan ports.Scheduler
	Logger *slog.Logger
}

type signature struct {
	size int64
	mod  int64
}

func signatureOf(info os.FileInfo) signature {
	return signature{size: info.Size(), mod: info.ModTime().UnixNano()}
}

// seenFile is a file left in place after handling.
type seenFile struct {
	sig  signature
	info os.FileInfo
}

// same reports whether info describes the very file that was handled,
// unchanged since.
func (f seenFile) same(info os.FileInfo) bool {
	return f.sig == signatureOf(info) && os.SameFile(f.info, info)
}

// FolderWatcher reports regular files appearing directly inside one directory.
type FolderWatcher struct {
	dir       string
	settle    time.Duration
	queueSize int
	rescan    ports.Scheduler
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	handled map[string]seenFile
}

var _ ports.Watcher = (*FolderWatcher)(nil)

// New builds a watcher for dir. Subdirectories, including the archive
// folder, are never descended into.
func New(dir string, opts Options) *FolderWatcher {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &FolderWatcher{
		dir:       filepath.Clean(dir),
		settle:    opts.SettleDelay,
		queueSize: size,
		rescan:    opts.Rescan,
		logger:    logger,
		pending:   make(map[string]struct{}),
		handled:   make(map[string]seenFile),
	}
}

// Start blocks until ctx is cancelled, calling handler for each new file.
// Files are handled one at a time in the order they were queued.
func (w *FolderWatcher) Start(ctx context.Context, handler func(context.Context, domain.WatchEvent)) error {
	if handler == nil {
		return fmt.Errorf("watcher handler is nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan string, w.queueSize)
	failed := make(chan error, 1)
	go w.forward(ctx, fsw, queue, failed)

	if w.rescan != nil {
		if err := w.rescan.Start(ctx, func(time.Time) { w.scan(queue) }); err != nil {
			return fmt.Errorf("start rescan: %w", err)
		}
		defer func() {
			if err := w.rescan.Stop(context.Background()); err != nil {
				w.logger.Warn("rescan stop failed", "error", err)
			}
		}()
	} else {
		w.scan(queue)
	}

	w.logger.Info("watching folder", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", "dir", w.dir)
			return nil
		case err := <-failed:
			return err
		case path := <-queue:
			w.handle(ctx, queue, path, handler)
		}
	}
}

func (w *FolderWatcher) forward(ctx context.Context, fsw *fsnotify.Watcher, queue chan<- string, failed chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				w.fail(failed, errors.New("fsnotify event stream closed"))
				return
			}
			if ev.Has(fsnotify.Create) {
				w.enqueue(queue, ev.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				w.fail(failed, errors.New("fsnotify error stream closed"))
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("event queue overflowed, rescanning", "dir", w.dir)
				w.scan(queue)
				continue
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		}
	}
}

func (w *FolderWatcher) fail(failed chan<- error, err error) {
	select {
	case failed <- err:
	default:
	}
}

// scan queues every eligible file currently in the directory.
func (w *FolderWatcher) scan(queue chan<- string) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("scan failed", "dir", w.dir, "error", err)
		return
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		w.enqueue(queue, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *FolderWatcher) enqueue(queue chan<- string, path string) {
	path = filepath.Clean(path)
	if filepath.Dir(path) != w.dir {
		return
	}
	// dotfiles are lock files and partial downloads
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	w.mu.Lock()
	if _, queued := w.pending[path]; queued {
		w.mu.Unlock()
		return
	}
	if prev, seen := w.handled[path]; seen && prev.same(info) {
		w.mu.Unlock()
		return
	}
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	select {
	case queue <- path:
		w.logger.Debug("file queued", "path", path)
	default:
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Warn("queue full, file left for next scan", "path", path)
	}
}

func (w *FolderWatcher) handle(ctx context.Context, queue chan<- string, path string, handler func(context.Context, domain.WatchEvent)) {
	settled, ok := w.waitStable(ctx, path)
	if ok {
		handler(ctx, domain.WatchEvent{Path: path, DetectedAt: time.Now()})
	}

	info, err := os.Lstat(path)
	present := err == nil && info.Mode().IsRegular()

	w.mu.Lock()
	delete(w.pending, path)
	delete(w.handled, path)
	switch {
	case !present || ctx.Err() != nil:
		w.mu.Unlock()
		return
	case ok && os.SameFile(settled, info) && signatureOf(settled) == signatureOf(info):
		// kept in place: skip it on rescans until it changes
		w.handled[path] = seenFile{sig: signatureOf(info), info: info}
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	// a different file took the name while the handler ran; its Create
	// event was swallowed by the pending entry
	w.logger.Debug("file replaced during handling, requeueing", "path", path)
	w.enqueue(queue, path)
}

// waitStable returns the settled file info once two probes settle apart
// see the same size and modification time. It returns false if the file
// vanishes or ctx ends.
func (w *FolderWatcher) waitStable(ctx context.Context, path string) (os.FileInfo, bool) {
	prev, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	for {
		if w.settle > 0 {
			timer := time.NewTimer(w.settle)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, false
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return nil, false
		}

		cur, err := os.Stat(path)
		if err != nil {
			return nil, false
		}
		if cur.Size() == prev.Size() && cur.ModTime().Equal(prev.ModTime()) {
			return cur, cur.Mode().IsRegular()
		}
		w.logger.Debug("file still growing", "path", path, "size", cur.Size())
		prev = cur
	}
}
