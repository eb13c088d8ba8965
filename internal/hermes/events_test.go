package hermes

import (
	"encoding/json"
	"testing"
)

func TestTranscriptUploadedParsing(t *testing.T) {
	// "aGVsbG8=" is base64 for "hello".
	raw := `{
		"owner_id": "22222222-2222-2222-2222-222222222222",
		"project_id": "11111111-1111-1111-1111-111111111111",
		"file_name": "session.jsonl",
		"content": "aGVsbG8="
	}`

	var evt TranscriptUploaded
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("failed to parse TranscriptUploaded: %v", err)
	}
	if evt.FileName != "session.jsonl" {
		t.Errorf("expected file_name 'session.jsonl', got '%s'", evt.FileName)
	}
	if string(evt.Content) != "hello" {
		t.Errorf("expected decoded content 'hello', got '%s'", evt.Content)
	}
}

func TestImportCompletedFieldNames(t *testing.T) {
	data, err := json.Marshal(ImportCompleted{AuditID: "a", Created: 2, Errors: 1})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"audit_id", "owner_id", "project_id", "file_name", "archive_path", "created", "updated", "skipped", "errors", "timestamp"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}

func TestSubjectConstants(t *testing.T) {
	if SubjectTranscriptUploaded != "promptvault.transcript.uploaded" {
		t.Errorf("unexpected SubjectTranscriptUploaded %q", SubjectTranscriptUploaded)
	}
	if SubjectImportCompleted != "promptvault.import.completed" {
		t.Errorf("unexpected SubjectImportCompleted %q", SubjectImportCompleted)
	}
}
