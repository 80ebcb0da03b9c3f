package store

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/starford/recallify/internal/models"
)

const subjectColumns = `id, name, color_hex, created_at, updated_at`

// ListSubjects returns every subject ordered by name, ties in insertion order.
func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects ORDER BY name ASC, rowid ASC`)
	if err != nil {
		return nil, classify("list subjects", err)
	}
	defer rows.Close()

	out := make([]models.Subject, 0)
	for rows.Next() {
		subj, err := scanSubject(rows)
		if err != nil {
			return nil, classify("list subjects", err)
		}
		out = append(out, subj)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list subjects", err)
	}
	return out, nil
}

// CreateSubject inserts a subject with a fresh id and returns it.
func (s *Store) CreateSubject(ctx context.Context, name, colorHex string) (*models.Subject, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.stamp()
	subj := &models.Subject{
		ID:        uuid.NewString(),
		Name:      name,
		ColorHex:  colorHex,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO subjects (`+subjectColumns+`) VALUES (?, ?, ?, ?, ?)`,
		subj.ID, subj.Name, subj.ColorHex, subj.CreatedAt, subj.UpdatedAt)
	if err != nil {
		return nil, classify("create subject", err)
	}
	s.logger.Debug("store: subject created", slog.String("id", subj.ID))
	return subj, nil
}

// UpdateSubject sets name and color, refreshes updated_at and returns the
// stored row. A missing id yields apperr.ErrNotFound.
func (s *Store) UpdateSubject(ctx context.Context, id, name, colorHex string) (*models.Subject, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.conn.ExecContext(ctx,
		`UPDATE subjects SET name = ?, color_hex = ?, updated_at = ? WHERE id = ?`,
		name, colorHex, s.stamp(), id)
	if err != nil {
		return nil, classify("update subject", err)
	}

	row := s.conn.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	subj, err := scanSubject(row)
	if err != nil {
		return nil, classify("update subject", err)
	}
	s.logger.Debug("store: subject updated", slog.String("id", id))
	return &subj, nil
}

// DeleteSubject removes the subject's notes and then the subject, in one
// transaction. Deleting an unknown id is not an error.
func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify("delete subject: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE subject_id = ?`, id)
	if err != nil {
		return classify("delete subject: notes", err)
	}
	cascaded, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id); err != nil {
		return classify("delete subject", err)
	}
	if err := tx.Commit(); err != nil {
		return classify("delete subject: commit", err)
	}

	s.logger.Debug("store: subject deleted",
		slog.String("id", id),
		slog.Int64("cascaded_notes", cascaded))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubject(sc scanner) (models.Subject, error) {
	var subj models.Subject
	err := sc.Scan(&subj.ID, &subj.Name, &subj.ColorHex, &subj.CreatedAt, &subj.UpdatedAt)
	if err != nil {
		return models.Subject{}, err
	}
	return subj, nil
}

