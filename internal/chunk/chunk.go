// Package chunk splits document text into size-bounded blocks for sinks that
// limit per-unit size.
package chunk

import "errors"

// ErrInvalidChunkSize is returned when maxChars is not positive.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Kind identifies which document a block belongs to.
type Kind string

const (
	KindSummary    Kind = "summary"
	KindTranscript Kind = "transcript"
)

// Block is one fixed-width slice of a document.
type Block struct {
	Index int
	Kind  Kind
	Text  string
}

// Split slices text into blocks of at most maxChars characters. Slicing is by
// character, not byte, so multi-byte runes are never cut in half. Blocks in
// order concatenate back to the exact input; empty text yields no blocks.
func Split(kind Kind, text string, maxChars int) ([]Block, error) {
	if maxChars <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	blocks := make([]Block, 0, (len(runes)+maxChars-1)/maxChars)

	for i := 0; i < len(runes); i += maxChars {
		end := i + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		blocks = append(blocks, Block{
			Index: len(blocks),
			Kind:  kind,
			Text:  string(runes[i:end]),
		})
	}

	return blocks, nil
}
