package ingest

import "github.com/MikeSquared-Agency/promptvault/internal/transcript"

// PreviewResult shows what an import would extract, without touching storage.
type PreviewResult struct {
	Records      int                      `json:"records"`
	Pairs        []transcript.Pair        `json:"pairs"`
	SkippedLines []transcript.SkippedLine `json:"skipped_lines"`
}

func Preview(content []byte) PreviewResult {
	parsed := transcript.Parse(content)
	res := PreviewResult{
		Records:      len(parsed.Records),
		Pairs:        transcript.ExtractPairs(parsed.Records),
		SkippedLines: parsed.Skipped,
	}
	if res.Pairs == nil {
		res.Pairs = []transcript.Pair{}
	}
	if res.SkippedLines == nil {
		res.SkippedLines = []transcript.SkippedLine{}
	}
	return res
}
