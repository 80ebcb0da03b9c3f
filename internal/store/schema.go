// Package store provides the SQLite-backed persistence layer for subjects and notes.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/semaphore"

	"github.com/starford/recallify/internal/apperr"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DefaultBusyTimeout is how long the engine waits on a locked file held by another process.
const DefaultBusyTimeout = 5 * time.Second

// Store owns the single connection to the database file. All operations are
// serialized through sem; at most one statement sequence runs at a time.
type Store struct {
	conn   *sql.DB
	path   string
	sem    *semaphore.Weighted
	closed atomic.Bool

	clock       func() time.Time
	lastStamp   time.Time
	logger      *slog.Logger
	busyTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for created_at/updated_at.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLogger sets the logger for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithBusyTimeout sets the engine busy timeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.busyTimeout = d
	}
}

// Open creates the database file (and its directory) if needed, enables WAL and
// foreign keys, and applies the schema. Errors wrap apperr.ErrStorageUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:        path,
		sem:         semaphore.NewWeighted(1),
		clock:       time.Now,
		logger:      slog.Default(),
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, unavailable("create data dir", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		path, s.busyTimeout.Milliseconds())
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, unavailable("open db", err)
	}
	// One connection: pragmas are per-connection and the store is the only writer.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	s.conn = conn

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, unavailable("ping", err)
	}
	if err := s.checkPragmas(); err != nil {
		conn.Close()
		return nil, unavailable("pragmas", err)
	}
	if err := s.migrate(migrationsFS); err != nil {
		conn.Close()
		return nil, unavailable("apply schema", err)
	}

	s.logger.Debug("store: opened", slog.String("path", path))
	return s, nil
}

func (s *Store) checkPragmas() error {
	var mode string
	if err := s.conn.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		return err
	}
	if !strings.EqualFold(mode, "wal") {
		return fmt.Errorf("journal_mode is %q, want wal", mode)
	}
	var fk int
	if err := s.conn.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		return err
	}
	if fk != 1 {
		return fmt.Errorf("foreign_keys is off")
	}
	return nil
}

// migrate executes every embedded *.sql file in name order. The statements
// are idempotent, so this runs on every start.
func (s *Store) migrate(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		stmt, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := s.conn.Exec(string(stmt)); err != nil {
			return fmt.Errorf("exec %s: %w", name, err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping checks that the connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	if err := s.conn.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("store: %s: %w: %w", op, apperr.ErrStorageUnavailable, err)
}
