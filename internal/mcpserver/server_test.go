package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/recallify/internal/models"
	"github.com/starford/recallify/internal/noteservice"
	"github.com/starford/recallify/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	svc := noteservice.NewService(testutil.TestStore(t), nil, nil)
	return New(svc, "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so dispatch to the
	// handler functions by name.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"list_subjects":     srv.listSubjects,
		"create_subject":    srv.createSubject,
		"update_subject":    srv.updateSubject,
		"delete_subject":    srv.deleteSubject,
		"list_notes":        srv.listNotes,
		"get_note":          srv.getNote,
		"create_note":       srv.createNote,
		"update_note":       srv.updateNote,
		"delete_note":       srv.deleteNote,
		"search_notes":      srv.searchNotes,
		"get_note_contract": srv.getNoteContract,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decode[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return v
}

func TestCreateAndSearchNote(t *testing.T) {
	srv := testServer(t)

	subj := decode[models.Subject](t, callTool(t, srv, "create_subject", map[string]any{
		"name":      "Math",
		"color_hex": "#FF0000",
	}))
	note := decode[models.Note](t, callTool(t, srv, "create_note", map[string]any{
		"subject_id": subj.ID,
		"title":      "Derivatives",
	}))
	if note.ContentJSON != "{}" {
		t.Errorf("content_json = %q, want {}", note.ContentJSON)
	}

	decode[models.Note](t, callTool(t, srv, "update_note", map[string]any{
		"id":           note.ID,
		"title":        "Derivatives",
		"content_json": `{"type":"doc"}`,
		"plain_text":   "chain rule examples",
	}))

	hits := decode[[]models.Note](t, callTool(t, srv, "search_notes", map[string]any{"query": "chain"}))
	if len(hits) != 1 || hits[0].ID != note.ID {
		t.Errorf("search = %+v", hits)
	}

	got := decode[models.Note](t, callTool(t, srv, "get_note", map[string]any{"id": note.ID}))
	if got.PlainText != "chain rule examples" {
		t.Errorf("plain_text = %q", got.PlainText)
	}
}

func TestListNotes_AllAndBySubject(t *testing.T) {
	srv := testServer(t)
	a := decode[models.Subject](t, callTool(t, srv, "create_subject", map[string]any{"name": "A"}))
	b := decode[models.Subject](t, callTool(t, srv, "create_subject", map[string]any{"name": "B"}))
	callTool(t, srv, "create_note", map[string]any{"subject_id": a.ID, "title": "a1"})
	callTool(t, srv, "create_note", map[string]any{"subject_id": b.ID, "title": "b1"})

	all := decode[[]models.Note](t, callTool(t, srv, "list_notes", map[string]any{}))
	if len(all) != 2 {
		t.Errorf("all notes = %d, want 2", len(all))
	}
	onlyA := decode[[]models.Note](t, callTool(t, srv, "list_notes", map[string]any{"subject_id": a.ID}))
	if len(onlyA) != 1 || onlyA[0].Title != "a1" {
		t.Errorf("notes for A = %+v", onlyA)
	}

	subjects := decode[[]models.Subject](t, callTool(t, srv, "list_subjects", map[string]any{}))
	if len(subjects) != 2 || subjects[0].Name != "A" {
		t.Errorf("subjects = %+v", subjects)
	}
}

func TestCreateNote_UnknownSubject(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"subject_id": "nope", "title": "t"})
	if !r.IsError {
		t.Fatal("expected error for unknown subject")
	}
	if !strings.HasPrefix(resultText(r), "integrity_violation") {
		t.Errorf("error text = %q", resultText(r))
	}
}

func TestGetNoteMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_note", map[string]any{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestRequiredArguments(t *testing.T) {
	srv := testServer(t)
	for _, name := range []string{"create_subject", "get_note", "create_note", "update_note", "delete_note", "delete_subject"} {
		r := callTool(t, srv, name, map[string]any{})
		if !r.IsError {
			t.Errorf("%s without arguments should fail", name)
		}
	}
}

func TestDeleteSubjectAndNote(t *testing.T) {
	srv := testServer(t)
	subj := decode[models.Subject](t, callTool(t, srv, "create_subject", map[string]any{"name": "Gone"}))
	note := decode[models.Note](t, callTool(t, srv, "create_note", map[string]any{"subject_id": subj.ID, "title": "x"}))

	r := callTool(t, srv, "delete_note", map[string]any{"id": note.ID})
	if r.IsError || resultText(r) != "deleted note: "+note.ID {
		t.Errorf("delete_note = %q", resultText(r))
	}
	r = callTool(t, srv, "delete_subject", map[string]any{"id": subj.ID})
	if r.IsError {
		t.Errorf("delete_subject = %q", resultText(r))
	}
	r = callTool(t, srv, "delete_subject", map[string]any{"id": subj.ID})
	if r.IsError {
		t.Error("deleting a missing subject should succeed")
	}
}

func TestGetNoteContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_note_contract", nil)
	if !strings.Contains(resultText(r), "content_json") {
		t.Error("contract should describe content_json")
	}
}
