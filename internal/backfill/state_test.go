package backfill

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadState_MissingFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if s.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if len(s.FilesProcessed) != 0 {
		t.Errorf("expected no processed files, got %v", s.FilesProcessed)
	}
}

func TestBackfillState_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	s.MarkProcessed("file1.jsonl")
	s.MarkProcessed("file2.jsonl")
	s.PairsCreated = 5
	s.PairsSkipped = 3

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsProcessed("file2.jsonl") {
		t.Error("file2 should be processed after reload")
	}
	if reloaded.PairsCreated != 5 || reloaded.PairsSkipped != 3 {
		t.Errorf("counters not persisted: %+v", reloaded)
	}
	if reloaded.LastProcessedAt.IsZero() {
		t.Error("expected LastProcessedAt to be set by Save")
	}
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadState(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBackfillState_IsProcessed(t *testing.T) {
	s := &BackfillState{}

	if s.IsProcessed("file1.jsonl") {
		t.Error("file1 should not be processed yet")
	}

	s.MarkProcessed("file1.jsonl")

	if !s.IsProcessed("file1.jsonl") {
		t.Error("file1 should be processed")
	}
	if s.IsProcessed("file2.jsonl") {
		t.Error("file2 should not be processed")
	}
}

func TestBackfillState_AddError(t *testing.T) {
	s := &BackfillState{}
	s.AddError("something went wrong")
	s.AddError("another error")

	if len(s.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(s.Errors))
	}
	if s.Errors[0] != "something went wrong" {
		t.Errorf("error[0] = %q", s.Errors[0])
	}
}

func TestBackfillState_SaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "nested", "dir", "state.json")

	s := &BackfillState{path: statePath}
	if err := s.Save(); err != nil {
		t.Fatalf("Save with nested dir failed: %v", err)
	}
	if _, err := os.Stat(statePath); err != nil {
		t.Fatalf("state file not created in nested dir: %v", err)
	}
}
