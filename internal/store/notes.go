package store

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/starford/recallify/internal/models"
)

// SearchLimit caps the number of rows SearchNotes returns.
const SearchLimit = 20

const noteColumns = `id, subject_id, title, content_json, plain_text, created_at, updated_at`

// ListNotes returns the notes of one subject, most recently updated first.
func (s *Store) ListNotes(ctx context.Context, subjectID string) ([]models.Note, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.queryNotes(ctx, "list notes",
		`SELECT `+noteColumns+` FROM notes WHERE subject_id = ?
		 ORDER BY updated_at DESC, rowid DESC`, subjectID)
}

// ListAllNotes returns every note, most recently updated first.
func (s *Store) ListAllNotes(ctx context.Context) ([]models.Note, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.queryNotes(ctx, "list all notes",
		`SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC, rowid DESC`)
}

// GetNote returns a single note or apperr.ErrNotFound.
func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.getNote(ctx, id)
}

func (s *Store) getNote(ctx context.Context, id string) (*models.Note, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, classify("get note", err)
	}
	return &n, nil
}

// CreateNote inserts an empty note under subjectID. An unknown subject fails
// with apperr.ErrIntegrity and leaves no row behind.
func (s *Store) CreateNote(ctx context.Context, subjectID, title string) (*models.Note, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.stamp()
	n := &models.Note{
		ID:          uuid.NewString(),
		SubjectID:   subjectID,
		Title:       title,
		ContentJSON: models.EmptyContent,
		PlainText:   "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.SubjectID, n.Title, n.ContentJSON, n.PlainText, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, classify("create note", err)
	}
	s.logger.Debug("store: note created", slog.String("id", n.ID), slog.String("subject_id", subjectID))
	return n, nil
}

// UpdateNote overwrites title, content and plain text, refreshes updated_at
// and returns the stored row.
func (s *Store) UpdateNote(ctx context.Context, id, title, contentJSON, plainText string) (*models.Note, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.conn.ExecContext(ctx,
		`UPDATE notes SET title = ?, content_json = ?, plain_text = ?, updated_at = ? WHERE id = ?`,
		title, contentJSON, plainText, s.stamp(), id)
	if err != nil {
		return nil, classify("update note", err)
	}
	n, err := s.getNote(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("store: note updated", slog.String("id", id))
	return n, nil
}

// DeleteNote removes a note. Deleting an unknown id is not an error.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return classify("delete note", err)
	}
	s.logger.Debug("store: note deleted", slog.String("id", id))
	return nil
}

// SearchNotes returns up to SearchLimit notes whose title or plain text
// contains query, using the engine's LIKE semantics. An empty query matches
// every note.
func (s *Store) SearchNotes(ctx context.Context, query string) ([]models.Note, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	like := "%" + query + "%"
	return s.queryNotes(ctx, "search notes",
		`SELECT `+noteColumns+` FROM notes
		 WHERE title LIKE ? OR plain_text LIKE ?
		 ORDER BY updated_at DESC, rowid DESC
		 LIMIT ?`, like, like, SearchLimit)
}

func (s *Store) queryNotes(ctx context.Context, op, query string, args ...any) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := make([]models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

func scanNote(sc scanner) (models.Note, error) {
	var n models.Note
	err := sc.Scan(&n.ID, &n.SubjectID, &n.Title, &n.ContentJSON, &n.PlainText, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return models.Note{}, err
	}
	return n, nil
}
