// Package models defines the domain types for Recallify.
package models

// Subject is a named category grouping notes.
type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ColorHex  string `json:"color_hex"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Note is a single rich-content document belonging to one subject.
//
// ContentJSON is the editor document and is stored verbatim. PlainText is the
// caller-supplied flattened text used only for search.
type Note struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subject_id"`
	Title       string `json:"title"`
	ContentJSON string `json:"content_json"`
	PlainText   string `json:"plain_text"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// EmptyContent is the content_json placeholder given to new notes.
const EmptyContent = "{}"
