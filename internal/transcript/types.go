package transcript

import (
	"encoding/json"
	"time"
)

// Kind is the event type of a transcript line.
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindSystem    Kind = "system"
)

// Record is one parsed transcript line.
type Record struct {
	Kind      Kind
	Role      string
	Content   json.RawMessage // plain string or an array of typed parts
	Timestamp time.Time
	ID        string
	ParentID  string
}

// Pair is a prompt and the reply that answered it.
type Pair struct {
	Prompt     string    `json:"prompt"`
	Reply      string    `json:"reply"`
	OccurredAt time.Time `json:"occurred_at"`
	SourceID   string    `json:"source_id"` // ID of the prompt record
}

// SkippedLine describes a line the parser dropped.
type SkippedLine struct {
	Line   int    `json:"line"` // 1-based
	Reason string `json:"reason"`
}

// ParseResult is the output of Parse.
type ParseResult struct {
	Records []Record
	Skipped []SkippedLine
}
