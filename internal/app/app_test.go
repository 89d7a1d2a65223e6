package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	t.Setenv("FOLDER_TRANSLATOR_CONFIG", "")
	t.Setenv("FOLDER_TO_WATCH", filepath.Join(t.TempDir(), "inbox"))
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TRANSLATOR_PROVIDER", "")
	return config.Load()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Watch.Folder = ""

	if _, err := New(cfg, logging.Discard()); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRunCreatesFoldersAndStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)

	application, err := New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(cfg.ArchiveDir()); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("archive folder was not created")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}

func TestRunArchivesUnsupportedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Watch.SettleDelay = 10 * time.Millisecond
	cfg.Watch.RescanInterval = 20 * time.Millisecond

	if err := os.MkdirAll(cfg.Watch.Folder, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := filepath.Join(cfg.Watch.Folder, "bundle.zip7")
	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	application, err := New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	archived := filepath.Join(cfg.ArchiveDir(), "bundle.zip7")
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, err := os.Stat(archived); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("file was not archived")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
