package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/recallify/internal/apperr"
)

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("Run without config should fail")
	}
}

func TestNewApplication_SharesLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogLevel = slog.LevelWarn
	lv := new(slog.LevelVar)

	app, err := newApplication([]Option{WithConfig(cfg), WithLevel(lv)})
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	if app.level != lv {
		t.Error("level var not shared")
	}
	if lv.Level() != slog.LevelWarn {
		t.Errorf("level = %v, want warn", lv.Level())
	}
	if app.version != defaultVersion {
		t.Errorf("version = %q", app.version)
	}
}

func TestOpenStore_UnavailablePath(t *testing.T) {
	// A regular file where the data directory should be makes Open fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.Database.Path = filepath.Join(blocker, "sub", "recallify.db")
	app, err := newApplication([]Option{WithConfig(cfg)})
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}

	_, err = app.openStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}

func TestOpenStore_CreatesDatabase(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "recallify.db")
	app, err := newApplication([]Option{WithConfig(cfg)})
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}

	st, err := app.openStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}
