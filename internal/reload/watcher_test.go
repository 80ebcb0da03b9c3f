package reload

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	data := []byte("app:\n  log_level: " + level + "\n  http:\n    port: 8080\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitForLevel(t *testing.T, lv *slog.LevelVar, want slog.Level) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if lv.Level() == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("level = %v, want %v", lv.Level(), want)
}

func TestReadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "warn")

	lvl, ok, err := readLevel(path)
	if err != nil {
		t.Fatalf("readLevel: %v", err)
	}
	if !ok || lvl != slog.LevelWarn {
		t.Errorf("readLevel = %v, %v", lvl, ok)
	}
}

func TestReadLevel_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database:\n  path: x.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, ok, err := readLevel(path)
	if err != nil {
		t.Fatalf("readLevel: %v", err)
	}
	if ok {
		t.Error("expected ok == false without app.log_level")
	}
}

func TestWatchConfig_UpdatesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "info")

	var lv slog.LevelVar
	lv.Set(slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchConfig(ctx, path, &lv, logger) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "debug")
	waitForLevel(t, &lv, slog.LevelDebug)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WatchConfig: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfig_InvalidFileKeepsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "info")

	var lv slog.LevelVar
	lv.Set(slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = WatchConfig(ctx, path, &lv, logger) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("app: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * Debounce)
	if lv.Level() != slog.LevelInfo {
		t.Errorf("level = %v, want info", lv.Level())
	}

	writeConfig(t, path, "error")
	waitForLevel(t, &lv, slog.LevelError)
}
