package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"iwatcher/internal/transcript"
)

const (
	statusQueued     = "queued"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusError      = "error"
)

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type createJobRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

type wireUtterance struct {
	Speaker string `json:"speaker"`
	Start   int64  `json:"start"` // milliseconds
	End     int64  `json:"end"`   // milliseconds
	Text    string `json:"text"`
}

type jobResponse struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Text          string          `json:"text"`
	Utterances    []wireUtterance `json:"utterances"`
	Confidence    float64         `json:"confidence"`
	AudioDuration float64         `json:"audio_duration"` // seconds
	Error         string          `json:"error"`
}

// Submit uploads the raw audio, then creates the transcription job.
func (c *implClient) Submit(ctx context.Context, audio []byte) (string, error) {
	uploadURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(createJobRequest{
		AudioURL:      uploadURL,
		SpeakerLabels: c.diarization,
	})
	if err != nil {
		return "", fmt.Errorf("encode job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build job request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmissionError{Detail: "create job request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SubmissionError{Detail: "read job response", Err: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &SubmissionError{Detail: fmt.Sprintf("provider returned HTTP %d: %s", resp.StatusCode, respBody)}
	}

	var job jobResponse
	if err := json.Unmarshal(respBody, &job); err != nil {
		return "", &SubmissionError{Detail: "parse job response", Err: err}
	}
	if job.ID == "" {
		return "", &SubmissionError{Detail: "provider returned no job id"}
	}

	c.logger.Info(ctx, "Transcription job submitted: %s (status: %s)", job.ID, job.Status)
	return job.ID, nil
}

func (c *implClient) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmissionError{Detail: "audio upload failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SubmissionError{Detail: "read upload response", Err: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &SubmissionError{Detail: fmt.Sprintf("upload returned HTTP %d: %s", resp.StatusCode, respBody)}
	}

	var upload uploadResponse
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return "", &SubmissionError{Detail: "parse upload response", Err: err}
	}
	if upload.UploadURL == "" {
		return "", &SubmissionError{Detail: "provider returned no upload url"}
	}

	return upload.UploadURL, nil
}

// AwaitCompletion sleeps one poll interval, queries the job, and repeats until
// the job completes, the provider reports error, or the deadline is reached.
// A single error status is terminal; transient transport failures are retried
// on the next interval until the deadline.
func (c *implClient) AwaitCompletion(ctx context.Context, jobID string) (*transcript.Transcript, error) {
	started := time.Now()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await transcription %s: %w", jobID, ctx.Err())
		case <-time.After(c.pollInterval):
		}

		job, err := c.poll(ctx, jobID)
		if err != nil {
			c.logger.Warn(ctx, "Poll %d for job %s failed: %v", attempt, jobID, err)
		} else {
			switch job.Status {
			case statusCompleted:
				c.logger.Info(ctx, "Transcription job %s completed after %d polls", jobID, attempt)
				return buildTranscript(job), nil
			case statusError:
				return nil, &TranscriptionError{JobID: jobID, Reason: ReasonProvider, Detail: job.Error}
			case statusQueued, statusProcessing:
				c.logger.Debug(ctx, "Transcription job %s still %s (poll %d)", jobID, job.Status, attempt)
			default:
				return nil, &TranscriptionError{JobID: jobID, Reason: ReasonProvider,
					Detail: fmt.Sprintf("unknown status %q", job.Status)}
			}
		}

		if time.Since(started) >= c.pollDeadline {
			return nil, &TranscriptionError{JobID: jobID, Reason: ReasonTimeout,
				Detail: fmt.Sprintf("no result after %s (%d polls)", c.pollDeadline, attempt)}
		}
	}
}

func (c *implClient) poll(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read poll response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll returned HTTP %d: %s", resp.StatusCode, respBody)
	}

	var job jobResponse
	if err := json.Unmarshal(respBody, &job); err != nil {
		return nil, fmt.Errorf("parse poll response: %w", err)
	}

	return &job, nil
}

// buildTranscript converts the provider payload into the domain transcript.
// Without diarization the provider returns flat text only, which becomes a
// single utterance covering the whole recording.
func buildTranscript(job *jobResponse) *transcript.Transcript {
	duration := time.Duration(job.AudioDuration * float64(time.Second))

	t := &transcript.Transcript{
		Confidence: job.Confidence,
		Duration:   duration,
	}

	if len(job.Utterances) == 0 {
		if job.Text != "" {
			t.Utterances = []transcript.Utterance{
				{Speaker: "A", Start: 0, End: duration, Text: job.Text},
			}
		}
		return t
	}

	t.Utterances = make([]transcript.Utterance, 0, len(job.Utterances))
	for _, u := range job.Utterances {
		t.Utterances = append(t.Utterances, transcript.Utterance{
			Speaker: u.Speaker,
			Start:   time.Duration(u.Start) * time.Millisecond,
			End:     time.Duration(u.End) * time.Millisecond,
			Text:    u.Text,
		})
	}

	return t
}
