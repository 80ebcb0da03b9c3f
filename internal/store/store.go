package store

import (
	"context"

	"github.com/starford/recallify/internal/models"
)

// Repository is the set of operations the store exposes to its callers.
// Consumers should depend on this interface rather than *Store.
type Repository interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CreateSubject(ctx context.Context, name, colorHex string) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id, name, colorHex string) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id string) error

	ListNotes(ctx context.Context, subjectID string) ([]models.Note, error)
	ListAllNotes(ctx context.Context) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	CreateNote(ctx context.Context, subjectID, title string) (*models.Note, error)
	UpdateNote(ctx context.Context, id, title, contentJSON, plainText string) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	SearchNotes(ctx context.Context, query string) ([]models.Note, error)

	Ping(ctx context.Context) error
	Close() error
}

// Verify *Store satisfies Repository at compile time.
var _ Repository = (*Store)(nil)
