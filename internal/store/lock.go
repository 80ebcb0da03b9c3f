package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/recallify/internal/apperr"
)

// TimeLayout is RFC 3339 with a fixed nanosecond field so that text order
// matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// acquire takes the connection guard. It fails with ErrLockContention when ctx
// ends first.
func (s *Store) acquire(ctx context.Context) (func(), error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("store: %w: closed", apperr.ErrStorageUnavailable)
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("store: %w: %w", apperr.ErrLockContention, err)
	}
	return func() { s.sem.Release(1) }, nil
}

// stamp returns the current UTC time formatted with TimeLayout. Successive
// stamps are strictly increasing even if the clock stalls or steps back.
// Callers must hold the guard.
func (s *Store) stamp() string {
	now := s.clock().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now.Format(TimeLayout)
}

// classify maps engine errors onto apperr kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: %s: %w", op, apperr.ErrNotFound)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("store: %s: %w: %w", op, apperr.ErrIntegrity, err)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}
