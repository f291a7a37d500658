package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kamalkashyapp/fanout/internal/logging"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`listen_addr = ":8080"`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded := make(chan FileConfig, 4)
	w := NewWatcher(path, func(fc FileConfig) { loaded <- fc }, logging.NewStdoutLogger("test"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(`listen_addr = ":9090"`), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case fc := <-loaded:
		if fc.ListenAddr != ":9090" {
			t.Errorf("reloaded addr: %q", fc.ListenAddr)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`listen_addr = ":8080"`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded := make(chan FileConfig, 4)
	w := NewWatcher(path, func(fc FileConfig) { loaded <- fc }, logging.NewStdoutLogger("test"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte(`x = 1`), 0644); err != nil {
		t.Fatalf("write other: %v", err)
	}

	select {
	case <-loaded:
		t.Fatal("callback fired for unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_SkipsInvalidReload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`listen_addr = ":8080"`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded := make(chan FileConfig, 4)
	w := NewWatcher(path, func(fc FileConfig) { loaded <- fc }, logging.NewStdoutLogger("test"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(`{broken toml`), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	// Parse failure must not invoke the callback
	select {
	case <-loaded:
		t.Fatal("callback fired for invalid file")
	case <-time.After(500 * time.Millisecond):
	}
}
