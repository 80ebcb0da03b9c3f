// Package noteservice exposes the subject and note operations to the outer
// boundaries (HTTP, MCP) and announces successful mutations.
package noteservice

import (
	"context"
	"log/slog"

	"github.com/starford/recallify/internal/models"
	"github.com/starford/recallify/internal/store"
)

// Change kinds passed to EventCallback.
const (
	SubjectCreated = "subject.created"
	SubjectUpdated = "subject.updated"
	SubjectDeleted = "subject.deleted"
	NoteCreated    = "note.created"
	NoteUpdated    = "note.updated"
	NoteDeleted    = "note.deleted"
)

// EventCallback is called after a successful mutation with the change kind
// and the affected id.
type EventCallback func(kind, id string)

// Service is the single shared handle to the store used by every boundary.
type Service struct {
	repo   store.Repository
	logger *slog.Logger
	notify EventCallback
}

// NewService creates a new note service. notify may be nil.
func NewService(repo store.Repository, logger *slog.Logger, notify EventCallback) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, notify: notify}
}

// ListSubjects returns all subjects ordered by name.
func (s *Service) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// CreateSubject creates a subject.
func (s *Service) CreateSubject(ctx context.Context, name, colorHex string) (*models.Subject, error) {
	subj, err := s.repo.CreateSubject(ctx, name, colorHex)
	if err != nil {
		return nil, err
	}
	s.publish(SubjectCreated, subj.ID)
	return subj, nil
}

// UpdateSubject renames or recolors a subject.
func (s *Service) UpdateSubject(ctx context.Context, id, name, colorHex string) (*models.Subject, error) {
	subj, err := s.repo.UpdateSubject(ctx, id, name, colorHex)
	if err != nil {
		return nil, err
	}
	s.publish(SubjectUpdated, subj.ID)
	return subj, nil
}

// DeleteSubject deletes a subject together with its notes.
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	if err := s.repo.DeleteSubject(ctx, id); err != nil {
		return err
	}
	s.publish(SubjectDeleted, id)
	return nil
}

// ListNotes returns the notes of one subject, newest first.
func (s *Service) ListNotes(ctx context.Context, subjectID string) ([]models.Note, error) {
	return s.repo.ListNotes(ctx, subjectID)
}

// ListAllNotes returns every note, newest first.
func (s *Service) ListAllNotes(ctx context.Context) ([]models.Note, error) {
	return s.repo.ListAllNotes(ctx)
}

// GetNote returns one note.
func (s *Service) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return s.repo.GetNote(ctx, id)
}

// CreateNote creates an empty note under a subject.
func (s *Service) CreateNote(ctx context.Context, subjectID, title string) (*models.Note, error) {
	n, err := s.repo.CreateNote(ctx, subjectID, title)
	if err != nil {
		return nil, err
	}
	s.publish(NoteCreated, n.ID)
	return n, nil
}

// UpdateNote replaces a note's title, content and search text.
func (s *Service) UpdateNote(ctx context.Context, id, title, contentJSON, plainText string) (*models.Note, error) {
	n, err := s.repo.UpdateNote(ctx, id, title, contentJSON, plainText)
	if err != nil {
		return nil, err
	}
	s.publish(NoteUpdated, n.ID)
	return n, nil
}

// DeleteNote deletes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.publish(NoteDeleted, id)
	return nil
}

// SearchNotes returns at most store.SearchLimit notes matching query.
func (s *Service) SearchNotes(ctx context.Context, query string) ([]models.Note, error) {
	return s.repo.SearchNotes(ctx, query)
}

// Ready reports whether the store can serve requests.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) publish(kind, id string) {
	s.logger.Debug("change", slog.String("kind", kind), slog.String("id", id))
	if s.notify != nil {
		s.notify(kind, id)
	}
}
