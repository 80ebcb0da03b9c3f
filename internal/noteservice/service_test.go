package noteservice

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/recallify/internal/apperr"
	"github.com/starford/recallify/internal/testutil"
)

type recorder struct {
	events []string
}

func (r *recorder) record(kind, id string) {
	r.events = append(r.events, kind+":"+id)
}

func TestServicePublishesMutations(t *testing.T) {
	rec := &recorder{}
	svc := NewService(testutil.TestStore(t), nil, rec.record)
	ctx := context.Background()

	subj, err := svc.CreateSubject(ctx, "Math", "#FF0000")
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if _, err := svc.UpdateSubject(ctx, subj.ID, "Maths", "#FF0000"); err != nil {
		t.Fatalf("UpdateSubject: %v", err)
	}
	note, err := svc.CreateNote(ctx, subj.ID, "Limits")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if _, err := svc.UpdateNote(ctx, note.ID, "Limits", "{}", "epsilon delta"); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if err := svc.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if err := svc.DeleteSubject(ctx, subj.ID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}

	want := []string{
		SubjectCreated + ":" + subj.ID,
		SubjectUpdated + ":" + subj.ID,
		NoteCreated + ":" + note.ID,
		NoteUpdated + ":" + note.ID,
		NoteDeleted + ":" + note.ID,
		SubjectDeleted + ":" + subj.ID,
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
}

func TestServiceReadsAndFailuresDoNotPublish(t *testing.T) {
	rec := &recorder{}
	svc := NewService(testutil.TestStore(t), nil, rec.record)
	ctx := context.Background()

	if _, err := svc.ListSubjects(ctx); err != nil {
		t.Fatalf("ListSubjects: %v", err)
	}
	if _, err := svc.SearchNotes(ctx, ""); err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	_, err := svc.CreateNote(ctx, "nonexistent", "t")
	if !errors.Is(err, apperr.ErrIntegrity) {
		t.Fatalf("CreateNote err = %v, want integrity violation", err)
	}
	_, err = svc.UpdateSubject(ctx, "nonexistent", "x", "#000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("UpdateSubject err = %v, want not found", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("unexpected events: %v", rec.events)
	}
}

func TestServiceNilCallback(t *testing.T) {
	svc := NewService(testutil.TestStore(t), nil, nil)
	if _, err := svc.CreateSubject(context.Background(), "x", "#000000"); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}
}
