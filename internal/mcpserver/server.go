// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Recallify subjects and notes as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/recallify/internal/apperr"
	"github.com/starford/recallify/internal/noteservice"
)

const contractURI = "recallify://note-format"

// Server wraps the MCP server with Recallify tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all Recallify tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Recallify",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_subjects",
		mcp.WithDescription("List all subjects ordered by name."),
	), s.listSubjects)

	s.mcp.AddTool(mcp.NewTool("create_subject",
		mcp.WithDescription("Create a subject (a named category for notes)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Subject name")),
		mcp.WithString("color_hex", mcp.Description("Display color such as #6366f1")),
	), s.createSubject)

	s.mcp.AddTool(mcp.NewTool("update_subject",
		mcp.WithDescription("Rename or recolor a subject."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Subject id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New name")),
		mcp.WithString("color_hex", mcp.Description("New color")),
	), s.updateSubject)

	s.mcp.AddTool(mcp.NewTool("delete_subject",
		mcp.WithDescription("Delete a subject and every note in it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Subject id")),
	), s.deleteSubject)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, most recently updated first. "+
			"Pass subject_id to restrict to one subject."),
		mcp.WithString("subject_id", mcp.Description("Optional subject id (empty for all notes)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read a note including its content_json."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create an empty note in a subject. Fill it with update_note. "+
			"Read the contract first via get_note_contract or the "+contractURI+" resource."),
		mcp.WithString("subject_id", mcp.Required(), mcp.Description("Id of an existing subject")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace a note's title, content_json and plain_text."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content_json", mcp.Required(), mcp.Description("Editor document as a JSON string")),
		mcp.WithString("plain_text", mcp.Required(), mcp.Description("Flattened text used for search")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Substring search through note titles and plain text (max 20 results)."),
		mcp.WithString("query", mcp.Description("Search text; empty returns the latest notes")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the Recallify record contract. "+
			"Call this before creating or updating notes."),
	), s.getNoteContract)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Note Format Contract",
			mcp.WithResourceDescription("Shape and rules of Recallify subjects and notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult flattens a store error into tool error text.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", apperr.Kind(err), err.Error()))
}

func (s *Server) listSubjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjects, err := s.svc.ListSubjects(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(subjects)
}

func (s *Server) createSubject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subj, err := s.svc.CreateSubject(ctx, name, req.GetString("color_hex", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(subj)
}

func (s *Server) updateSubject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subj, err := s.svc.UpdateSubject(ctx, id, name, req.GetString("color_hex", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(subj)
}

func (s *Server) deleteSubject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteSubject(ctx, id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted subject: %s", id)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		notes any
		err   error
	)
	if subjectID := req.GetString("subject_id", ""); subjectID != "" {
		notes, err = s.svc.ListNotes(ctx, subjectID)
	} else {
		notes, err = s.svc.ListAllNotes(ctx)
	}
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(notes)
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(note)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjectID, err := req.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.CreateNote(ctx, subjectID, title)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(note)
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	plain, err := req.RequireString("plain_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.UpdateNote(ctx, id, title, content, plain)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(note)
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteNote(ctx, id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted note: %s", id)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.SearchNotes(ctx, req.GetString("query", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(notes)
}

func (s *Server) getNoteContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
