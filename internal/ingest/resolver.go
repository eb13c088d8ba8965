package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/store"
	"github.com/MikeSquared-Agency/promptvault/internal/transcript"
)

// DedupWindow is how far either side of a pair's timestamp existing entries
// are searched for a match.
const DedupWindow = 5 * time.Minute

// Resolver finds an already stored entry for a prompt.
type Resolver struct {
	finder CandidateFinder
	window time.Duration
}

func NewResolver(finder CandidateFinder) *Resolver {
	return &Resolver{finder: finder, window: DedupWindow}
}

// Find returns the first of the owner's entries created within the window
// around at whose normalized content equals normalizedPrompt, or nil.
func (r *Resolver) Find(ctx context.Context, ownerID uuid.UUID, normalizedPrompt string, at time.Time) (*store.Entry, error) {
	candidates, err := r.finder.FindCandidateEntries(ctx, ownerID, at.Add(-r.window), at.Add(r.window))
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if transcript.Normalize(candidates[i].Content) == normalizedPrompt {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
