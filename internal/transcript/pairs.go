package transcript

type scanState int

const (
	seekingPrompt scanState = iota
	seekingReply
)

// ExtractPairs rebuilds prompt/reply pairs from records in transcript order.
//
// A user record opens a pending prompt; the first assistant record after it
// closes the pair. A second user record before any reply replaces the pending
// prompt, so the earlier one is dropped. Assistant records with no pending
// prompt are ignored. Pairs with an empty prompt or reply are not emitted.
func ExtractPairs(records []Record) []Pair {
	var (
		pairs   []Pair
		state   = seekingPrompt
		pending Record
		prompt  string
	)

	for _, rec := range records {
		switch rec.Kind {
		case KindUser:
			pending = rec
			prompt = ExtractText(rec.Content)
			state = seekingReply

		case KindAssistant:
			if state != seekingReply {
				continue
			}
			state = seekingPrompt

			reply := ExtractText(rec.Content)
			if prompt == "" || reply == "" {
				continue
			}
			pairs = append(pairs, Pair{
				Prompt:     prompt,
				Reply:      reply,
				OccurredAt: pending.Timestamp,
				SourceID:   pending.ID,
			})
		}
	}

	return pairs
}
