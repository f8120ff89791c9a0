package transcribe

import "fmt"

// FailureReason distinguishes why a transcription job was abandoned.
type FailureReason string

const (
	ReasonProvider FailureReason = "provider_error"
	ReasonTimeout  FailureReason = "timeout"
)

// SubmissionError means the provider rejected the audio at submission time.
type SubmissionError struct {
	Detail string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription submission rejected: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("transcription submission rejected: %s", e.Detail)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// TranscriptionError means a submitted job finished without a transcript.
type TranscriptionError struct {
	JobID  string
	Reason FailureReason
	Detail string
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription job %s failed (%s): %s", e.JobID, e.Reason, e.Detail)
}
