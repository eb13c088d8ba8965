package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

func TestStats(t *testing.T) {
	s := newFlakyStore()
	im := New(s, &fakeArchiver{}, nil, nil, testLogger())
	owner := uuid.New()
	reply := "r"

	s.AddEntry(store.Entry{OwnerID: owner, Source: store.SourceTranscriptImport, Response: &reply})
	s.AddEntry(store.Entry{OwnerID: owner, Source: store.SourceTranscriptImport, Response: &reply})
	s.AddEntry(store.Entry{OwnerID: owner, Source: store.SourceTranscriptImport})
	s.AddEntry(store.Entry{OwnerID: owner, Source: "manual", Response: &reply})
	s.AddEntry(store.Entry{OwnerID: uuid.New(), Source: store.SourceTranscriptImport, Response: &reply})

	st, err := im.Stats(context.Background(), owner)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 3 || st.WithResponse != 2 || st.MissingResponse != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestHistory_FilterAndOrder(t *testing.T) {
	s := newFlakyStore()
	im := New(s, &fakeArchiver{}, nil, nil, testLogger())
	owner := uuid.New()
	projectA, projectB := uuid.New(), uuid.New()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	s.WriteAuditRecord(ctx, store.AuditRecord{OwnerID: owner, ProjectID: projectA, FileName: "a1", CreatedAt: t0})
	s.WriteAuditRecord(ctx, store.AuditRecord{OwnerID: owner, ProjectID: projectB, FileName: "b1", CreatedAt: t0.Add(time.Minute)})
	s.WriteAuditRecord(ctx, store.AuditRecord{OwnerID: owner, ProjectID: projectA, FileName: "a2", CreatedAt: t0.Add(2 * time.Minute)})

	all, err := im.History(ctx, owner, nil)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(all) != 3 || all[0].FileName != "a2" || all[2].FileName != "a1" {
		t.Errorf("history = %+v", all)
	}

	onlyB, err := im.History(ctx, owner, &projectB)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(onlyB) != 1 || onlyB[0].FileName != "b1" {
		t.Errorf("project history = %+v", onlyB)
	}

	none, err := im.History(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestPreview(t *testing.T) {
	res := Preview(threePairs)
	if res.Records != 6 {
		t.Errorf("records = %d, want 6", res.Records)
	}
	if len(res.Pairs) != 3 || res.Pairs[0].Reply != "first answer" {
		t.Errorf("pairs = %+v", res.Pairs)
	}
	if len(res.SkippedLines) != 1 || res.SkippedLines[0].Line != 3 {
		t.Errorf("skipped = %+v", res.SkippedLines)
	}

	empty := Preview(nil)
	if empty.Pairs == nil || empty.SkippedLines == nil {
		t.Error("expected non-nil slices for JSON rendering")
	}
}

func TestEntry_ScopedToOwner(t *testing.T) {
	s := newFlakyStore()
	im := New(s, &fakeArchiver{}, nil, nil, testLogger())
	owner := uuid.New()
	e := s.AddEntry(store.Entry{OwnerID: owner, Content: "mine"})
	ctx := context.Background()

	got, err := im.Entry(ctx, owner, e.ID)
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if got.Content != "mine" {
		t.Errorf("content = %q", got.Content)
	}

	if _, err := im.Entry(ctx, uuid.New(), e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("other owner: expected ErrNotFound, got %v", err)
	}
	if _, err := im.Entry(ctx, owner, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}
}
