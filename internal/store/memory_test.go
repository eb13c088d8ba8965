package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemory_FindCandidateEntries_InclusiveWindowAndOwner(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	from, to := t0.Add(-5*time.Minute), t0.Add(5*time.Minute)

	m.AddEntry(Entry{OwnerID: owner, Content: "at start", CreatedAt: from})
	m.AddEntry(Entry{OwnerID: owner, Content: "at end", CreatedAt: to})
	m.AddEntry(Entry{OwnerID: owner, Content: "too early", CreatedAt: from.Add(-time.Second)})
	m.AddEntry(Entry{OwnerID: owner, Content: "too late", CreatedAt: to.Add(time.Second)})
	m.AddEntry(Entry{OwnerID: other, Content: "someone else", CreatedAt: t0})

	got, err := m.FindCandidateEntries(ctx, owner, from, to)
	if err != nil {
		t.Fatalf("FindCandidateEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].Content != "at start" || got[1].Content != "at end" {
		t.Errorf("unexpected candidates: %q, %q", got[0].Content, got[1].Content)
	}
}

func TestMemory_CreateAndUpdate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	owner := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	id, err := m.CreateEntry(ctx, NewEntry{
		OwnerID:   owner,
		ProjectID: uuid.New(),
		Content:   "prompt",
		Response:  "reply",
		Source:    SourceTranscriptImport,
		SourceRef: "u1",
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	e, err := m.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Response == nil || *e.Response != "reply" || e.SourceRef != "u1" || !e.CreatedAt.Equal(created) {
		t.Errorf("entry = %+v", e)
	}

	if err := m.UpdateEntryResponse(ctx, id, "new reply"); err != nil {
		t.Fatalf("UpdateEntryResponse: %v", err)
	}
	e, _ = m.GetEntry(ctx, id)
	if *e.Response != "new reply" || e.Content != "prompt" {
		t.Errorf("after update entry = %+v", e)
	}

	err = m.UpdateEntryResponse(ctx, uuid.New(), "x")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_ReturnedEntriesAreCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	owner := uuid.New()
	id, _ := m.CreateEntry(ctx, NewEntry{OwnerID: owner, Content: "p", Response: "r", CreatedAt: time.Now()})

	e, _ := m.GetEntry(ctx, id)
	*e.Response = "mutated"

	again, _ := m.GetEntry(ctx, id)
	if *again.Response != "r" {
		t.Errorf("stored response changed through returned pointer: %q", *again.Response)
	}
}

func TestMemory_CountEntries(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	owner := uuid.New()
	reply := "r"

	m.AddEntry(Entry{OwnerID: owner, Source: SourceTranscriptImport, Response: &reply})
	m.AddEntry(Entry{OwnerID: owner, Source: SourceTranscriptImport, Response: &reply})
	m.AddEntry(Entry{OwnerID: owner, Source: SourceTranscriptImport})
	m.AddEntry(Entry{OwnerID: owner, Source: "manual"})
	m.AddEntry(Entry{OwnerID: uuid.New(), Source: SourceTranscriptImport})

	yes, no := true, false
	tests := []struct {
		name string
		has  *bool
		want int
	}{
		{"all", nil, 3},
		{"with response", &yes, 2},
		{"missing response", &no, 1},
	}
	for _, tt := range tests {
		got, err := m.CountEntries(ctx, owner, SourceTranscriptImport, tt.has)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMemory_ListAuditRecords(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	owner := uuid.New()
	projectA, projectB := uuid.New(), uuid.New()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m.WriteAuditRecord(ctx, AuditRecord{OwnerID: owner, ProjectID: projectA, FileName: "old.jsonl", CreatedAt: t0})
	m.WriteAuditRecord(ctx, AuditRecord{OwnerID: owner, ProjectID: projectB, FileName: "mid.jsonl", CreatedAt: t0.Add(time.Hour)})
	m.WriteAuditRecord(ctx, AuditRecord{OwnerID: owner, ProjectID: projectA, FileName: "new.jsonl", CreatedAt: t0.Add(2 * time.Hour)})
	m.WriteAuditRecord(ctx, AuditRecord{OwnerID: uuid.New(), ProjectID: projectA, FileName: "foreign.jsonl", CreatedAt: t0})

	all, err := m.ListAuditRecords(ctx, owner, nil)
	if err != nil {
		t.Fatalf("ListAuditRecords: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].FileName != "new.jsonl" || all[1].FileName != "mid.jsonl" || all[2].FileName != "old.jsonl" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].FileName, all[1].FileName, all[2].FileName)
	}
	for _, r := range all {
		if r.ID == uuid.Nil {
			t.Error("expected audit ID to be assigned")
		}
	}

	onlyA, _ := m.ListAuditRecords(ctx, owner, &projectA)
	if len(onlyA) != 2 || onlyA[0].FileName != "new.jsonl" {
		t.Errorf("project filter = %+v", onlyA)
	}
}
