package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// Format renders the transcript as one line per utterance:
//
//	[MM:SS] A: hello there
//
// Utterances are emitted in ascending start-offset order regardless of the
// order the provider returned them. Speaker labels pass through unchanged.
func Format(t Transcript) string {
	utterances := make([]Utterance, len(t.Utterances))
	copy(utterances, t.Utterances)

	sort.SliceStable(utterances, func(i, j int) bool {
		return utterances[i].Start < utterances[j].Start
	})

	lines := make([]string, 0, len(utterances))
	for _, u := range utterances {
		total := int(u.Start.Seconds())
		lines = append(lines, fmt.Sprintf("[%02d:%02d] %s: %s", total/60, total%60, u.Speaker, u.Text))
	}

	return strings.Join(lines, "\n")
}
