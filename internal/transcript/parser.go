package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// line is the on-disk shape of a single JSONL transcript event.
type line struct {
	Type       string  `json:"type"`
	UUID       string  `json:"uuid"`
	ParentUUID *string `json:"parentUuid"`
	Timestamp  string  `json:"timestamp"`
	Message    message `json:"message"`
}

type message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Parse turns a JSONL transcript into records, in line order. Lines that are
// not valid JSON, are not user/assistant events, or carry no usable timestamp
// are dropped and reported in ParseResult.Skipped. Blank lines are ignored.
func Parse(data []byte) ParseResult {
	// A single line can never exceed the whole input.
	return parse(data, len(data)+1)
}

func parse(data []byte, maxLine int) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, min(maxLine, 64*1024)), maxLine)

	n := 0
	for scanner.Scan() {
		n++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			res.Skipped = append(res.Skipped, SkippedLine{Line: n, Reason: fmt.Sprintf("invalid json: %v", err)})
			continue
		}

		kind := Kind(l.Type)
		if kind != KindUser && kind != KindAssistant {
			res.Skipped = append(res.Skipped, SkippedLine{Line: n, Reason: fmt.Sprintf("ignored type %q", l.Type)})
			continue
		}

		ts, err := time.Parse(time.RFC3339Nano, l.Timestamp)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedLine{Line: n, Reason: fmt.Sprintf("bad timestamp %q", l.Timestamp)})
			continue
		}

		rec := Record{
			Kind:      kind,
			Role:      l.Message.Role,
			Content:   l.Message.Content,
			Timestamp: ts,
			ID:        l.UUID,
		}
		if l.ParentUUID != nil {
			rec.ParentID = *l.ParentUUID
		}
		res.Records = append(res.Records, rec)
	}
	// The scanner stops at the first line it cannot read; the rest of the
	// input is reported as a single skipped line.
	if err := scanner.Err(); err != nil {
		res.Skipped = append(res.Skipped, SkippedLine{Line: n + 1, Reason: fmt.Sprintf("read: %v", err)})
	}

	return res
}

// ExtractText returns the textual content of a message. A plain string is
// returned verbatim; for an array of parts the text of every "text" part is
// joined with a blank line; all other parts, including malformed ones, are
// ignored.
func ExtractText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(content, &plain); err == nil {
		return plain
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(content, &parts); err != nil {
		return ""
	}

	texts := make([]string, 0, len(parts))
	for _, raw := range parts {
		var p contentPart
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		if p.Type == "text" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n\n")
}
