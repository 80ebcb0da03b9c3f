package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/recallify/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListSubjects handles GET /api/subjects.
//
//	@Summary		List subjects ordered by name
//	@Tags			subjects
//	@Produce		json
//	@Success		200	{array}	Subject
//	@Security		BearerAuth
//	@Router			/subjects [get]
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.svc.ListSubjects(r.Context())
	if err != nil {
		writeError(w, "list subjects", err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

// CreateSubject handles POST /api/subjects.
//
//	@Summary		Create a subject
//	@Tags			subjects
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SubjectRequest	true	"Subject to create"
//	@Success		201		{object}	Subject
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/subjects [post]
func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req SubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	subj, err := h.svc.CreateSubject(r.Context(), req.Name, req.ColorHex)
	if err != nil {
		writeError(w, "create subject", err)
		return
	}
	writeJSON(w, http.StatusCreated, subj)
}

// UpdateSubject handles PUT /api/subjects/{id}.
//
//	@Summary		Rename or recolor a subject
//	@Tags			subjects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Subject id"
//	@Param			body	body		SubjectRequest	true	"New values"
//	@Success		200		{object}	Subject
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/subjects/{id} [put]
func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	var req SubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	subj, err := h.svc.UpdateSubject(r.Context(), chi.URLParam(r, "id"), req.Name, req.ColorHex)
	if err != nil {
		writeError(w, "update subject", err)
		return
	}
	writeJSON(w, http.StatusOK, subj)
}

// DeleteSubject handles DELETE /api/subjects/{id}. Unknown ids still return 204.
//
//	@Summary		Delete a subject and all of its notes
//	@Tags			subjects
//	@Param			id	path	string	true	"Subject id"
//	@Success		204	"Subject deleted"
//	@Security		BearerAuth
//	@Router			/subjects/{id} [delete]
func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSubject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete subject", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /api/subjects/{id}/notes.
//
//	@Summary		List a subject's notes, most recently updated first
//	@Tags			notes
//	@Produce		json
//	@Param			id	path	string	true	"Subject id"
//	@Success		200	{array}	Note
//	@Security		BearerAuth
//	@Router			/subjects/{id}/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// ListAllNotes handles GET /api/notes.
//
//	@Summary		List all notes, most recently updated first
//	@Tags			notes
//	@Produce		json
//	@Success		200	{array}	Note
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListAllNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListAllNotes(r.Context())
	if err != nil {
		writeError(w, "list all notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create an empty note under a subject
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	Note
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("subject_id is required"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req.SubjectID, req.Title)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Replace a note's title, content and search text
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"New values"
//	@Success		200		{object}	Note
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), chi.URLParam(r, "id"), req.Title, req.ContentJSON, req.PlainText)
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}. Unknown ids still return 204.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchNotes handles GET /api/search.
//
//	@Summary		Substring search over note titles and plain text
//	@Description	An empty or missing q matches every note; at most 20 results.
//	@Tags			search
//	@Produce		json
//	@Param			q	query	string	false	"Search query"
//	@Success		200	{array}	Note
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	notes, err := h.svc.SearchNotes(r.Context(), q)
	if err != nil {
		writeError(w, "search notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
