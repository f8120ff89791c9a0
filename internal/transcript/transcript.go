// Package transcript holds the speaker-attributed transcription result and
// its text rendering.
package transcript

import "time"

// Utterance is one attributed speech segment. Offsets are relative to the
// start of the recording.
type Utterance struct {
	Speaker string
	Start   time.Duration
	End     time.Duration
	Text    string
}

// Transcript is the ordered transcription of one audio file.
type Transcript struct {
	Utterances []Utterance
	Confidence float64 // 0..1
	Duration   time.Duration
}
