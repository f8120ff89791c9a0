package summarizer

import "context"

// Result is the outcome of a summarization attempt. Fallback marks a
// placeholder produced because the provider was unavailable; the text is
// never empty either way.
type Result struct {
	Text     string
	Fallback bool
}

// Summarizer produces an AI summary of a formatted transcript. It never
// returns an error: provider failures become a Fallback result.
type Summarizer interface {
	Summarize(ctx context.Context, transcriptText string) Result
}
