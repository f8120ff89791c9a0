package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iwatcher/internal/chunk"
	"iwatcher/internal/config"
	"iwatcher/internal/delivery"
	"iwatcher/internal/logger"
	"iwatcher/internal/source"
	"iwatcher/internal/summarizer"
	"iwatcher/internal/transcribe"
	"iwatcher/internal/transcript"
)

type stubStore struct {
	audio    []byte
	claimErr error
	fetchErr error

	claims int
	moved  []source.Destination
}

func (s *stubStore) Claim(ctx context.Context, ref source.FileRef) (source.FileRef, error) {
	s.claims++
	if s.claimErr != nil {
		return source.FileRef{}, s.claimErr
	}
	claimed := ref
	claimed.ID = "processing/" + ref.Name
	return claimed, nil
}

func (s *stubStore) Fetch(ctx context.Context, ref source.FileRef) ([]byte, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.audio, nil
}

func (s *stubStore) Move(ctx context.Context, ref source.FileRef, dest source.Destination) error {
	s.moved = append(s.moved, dest)
	return nil
}

type stubTranscriber struct {
	submitErr error
	awaitErr  error
	result    *transcript.Transcript

	submits int
	awaits  int
}

func (t *stubTranscriber) Submit(ctx context.Context, audio []byte) (string, error) {
	t.submits++
	if t.submitErr != nil {
		return "", t.submitErr
	}
	return "job-1", nil
}

func (t *stubTranscriber) AwaitCompletion(ctx context.Context, jobID string) (*transcript.Transcript, error) {
	t.awaits++
	if t.awaitErr != nil {
		return nil, t.awaitErr
	}
	return t.result, nil
}

type stubSummarizer struct {
	result summarizer.Result
	calls  int
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string) summarizer.Result {
	s.calls++
	return s.result
}

type captureSink struct {
	name string
	err  error

	calls int
	last  delivery.Request
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Deliver(ctx context.Context, req delivery.Request) (string, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return s.name + "-ref", nil
}

type fixture struct {
	store      *stubStore
	client     *stubTranscriber
	summ       *stubSummarizer
	structured *captureSink
	flat       *captureSink
	pipeline   Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: &stubStore{audio: []byte("audio")},
		client: &stubTranscriber{
			result: &transcript.Transcript{
				Utterances: []transcript.Utterance{
					{Speaker: "A", Start: 0, End: 30 * time.Second, Text: "hello everyone"},
				},
				Confidence: 0.95,
				Duration:   30 * time.Second,
			},
		},
		summ:       &stubSummarizer{result: summarizer.Result{Text: "A short greeting."}},
		structured: &captureSink{name: "notion"},
		flat:       &captureSink{name: "flatfile"},
	}

	cfg := &config.Config{
		Pipeline: config.PipelineConfig{ChunkMaxChars: 2000},
	}

	log := logger.New("error")
	f.pipeline = New(cfg, f.store, f.client, f.summ, delivery.NewDispatcher(log, f.structured, f.flat), log)
	return f
}

func testRef() source.FileRef {
	return source.FileRef{ID: "new/clip.m4a", Name: "clip.m4a", MimeType: "audio/mp4", ByteSize: 1234}
}

// Scenario A: single-speaker clip, short summary, both sinks succeed.
func TestProcessHappyPath(t *testing.T) {
	f := newFixture(t)

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateCompleted, run.State)
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, run.Err)

	require.Len(t, run.Outcomes, 2)
	assert.True(t, run.Outcomes[0].Success)
	assert.True(t, run.Outcomes[1].Success)

	require.Equal(t, 1, f.structured.calls)
	assert.Len(t, f.structured.last.SummaryBlocks, 1)
	assert.Len(t, f.structured.last.TranscriptBlocks, 1)
	assert.Equal(t, "[00:00] A: hello everyone", f.structured.last.TranscriptBlocks[0].Text)
	assert.InDelta(t, 0.95, f.structured.last.Confidence, 1e-9)

	assert.Equal(t, []source.Destination{source.DestinationCompleted}, f.store.moved)
}

// Scenario B: provider reports error status; downstream stages never run.
func TestProcessProviderError(t *testing.T) {
	f := newFixture(t)
	f.client.awaitErr = &transcribe.TranscriptionError{
		JobID: "job-1", Reason: transcribe.ReasonProvider, Detail: "bad audio",
	}

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateFailed, run.State)
	assert.Equal(t, StageTranscribe, run.FailedStage)

	assert.Equal(t, 0, f.summ.calls)
	assert.Equal(t, 0, f.structured.calls)
	assert.Equal(t, 0, f.flat.calls)
	assert.Equal(t, []source.Destination{source.DestinationFailed}, f.store.moved)
}

// Scenario C: a 5000-char summary is chunked for the structured sink while
// the flat sink receives the full text unsplit.
func TestProcessLongSummaryChunking(t *testing.T) {
	f := newFixture(t)
	longSummary := strings.Repeat("s", 5000)
	f.summ.result = summarizer.Result{Text: longSummary}

	run := f.pipeline.Process(context.Background(), testRef())
	require.Equal(t, StateCompleted, run.State)

	blocks := f.structured.last.SummaryBlocks
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0].Text, 2000)
	assert.Len(t, blocks[1].Text, 2000)
	assert.Len(t, blocks[2].Text, 1000)
	assert.Equal(t, chunk.KindSummary, blocks[0].Kind)

	assert.Equal(t, longSummary, f.flat.last.SummaryText)
}

// Scenario D: polling timed out; run fails.
func TestProcessTimeout(t *testing.T) {
	f := newFixture(t)
	f.client.awaitErr = &transcribe.TranscriptionError{
		JobID: "job-1", Reason: transcribe.ReasonTimeout, Detail: "no result after 10m0s",
	}

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateFailed, run.State)
	var trErr *transcribe.TranscriptionError
	require.ErrorAs(t, run.Err, &trErr)
	assert.Equal(t, transcribe.ReasonTimeout, trErr.Reason)
	assert.Equal(t, []source.Destination{source.DestinationFailed}, f.store.moved)
}

func TestProcessDownloadError(t *testing.T) {
	f := newFixture(t)
	f.store.fetchErr = &source.DownloadError{Ref: testRef()}

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateFailed, run.State)
	assert.Equal(t, StageDownload, run.FailedStage)
	assert.Equal(t, 0, f.client.submits)
	assert.Equal(t, []source.Destination{source.DestinationFailed}, f.store.moved)
}

func TestProcessSubmissionError(t *testing.T) {
	f := newFixture(t)
	f.client.submitErr = &transcribe.SubmissionError{Detail: "unsupported format"}

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateFailed, run.State)
	assert.Equal(t, StageTranscribe, run.FailedStage)
	assert.Equal(t, 0, f.client.awaits)
}

// Summarizer fallback is non-fatal: the run still completes and the
// placeholder text is delivered.
func TestProcessSummaryFallback(t *testing.T) {
	f := newFixture(t)
	f.summ.result = summarizer.Result{Text: summarizer.FallbackText, Fallback: true}

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateCompleted, run.State)
	assert.True(t, run.Summary.Fallback)
	assert.Equal(t, 1, f.structured.calls)
	assert.True(t, f.structured.last.SummaryFallback)
	assert.NotEmpty(t, f.structured.last.SummaryBlocks)
	assert.Equal(t, []source.Destination{source.DestinationCompleted}, f.store.moved)
}

// Partial delivery failure does not demote the run: the transcript exists,
// so the file still moves to Completed.
func TestProcessPartialDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.structured.err = assert.AnError

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateCompleted, run.State)
	require.Len(t, run.Outcomes, 2)
	assert.False(t, run.Outcomes[0].Success)
	assert.True(t, run.Outcomes[1].Success)
	assert.Equal(t, []source.Destination{source.DestinationCompleted}, f.store.moved)
}

// A lost claim race means another run owns the file: no work, no move.
func TestProcessClaimRaceSkips(t *testing.T) {
	f := newFixture(t)
	f.store.claimErr = source.ErrAlreadyClaimed

	run := f.pipeline.Process(context.Background(), testRef())

	assert.Equal(t, StateSkipped, run.State)
	assert.Equal(t, 0, f.client.submits)
	assert.Empty(t, f.store.moved)
}
