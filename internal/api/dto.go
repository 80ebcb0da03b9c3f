package api

import "github.com/starford/recallify/internal/models"

// Subject is the subject response type (aliased from the domain layer).
type Subject = models.Subject

// Note is the note response type (aliased from the domain layer).
type Note = models.Note

// SubjectRequest is the request body for creating or updating a subject.
type SubjectRequest struct {
	Name     string `json:"name" example:"Math" validate:"required"`
	ColorHex string `json:"color_hex" example:"#6366f1"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	SubjectID string `json:"subject_id" example:"3f0c..." validate:"required"`
	Title     string `json:"title" example:"Derivatives"`
}

// UpdateNoteRequest is the request body for updating a note.
// ContentJSON is stored verbatim; PlainText is what search matches against.
type UpdateNoteRequest struct {
	Title       string `json:"title" example:"Derivatives"`
	ContentJSON string `json:"content_json" example:"{\"type\":\"doc\"}"`
	PlainText   string `json:"plain_text" example:"chain rule examples"`
}
