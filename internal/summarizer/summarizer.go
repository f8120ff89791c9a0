package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const summaryPrompt = `You are an expert meeting and voice-note analyst. Based on the speaker-labeled transcript below, write a detailed summary.

Requirements:
- Start with a one-sentence overview of what the recording is about
- List all main points and decisions in the order they appear
- Attribute important statements to their speaker labels
- Use markdown: headings, bullet points, bold for key terms
- End with an "Action items" section if any follow-ups were mentioned

Transcript:
---
%s
---`

// FallbackText is delivered in place of a summary when the provider fails.
const FallbackText = "Summary unavailable: the summarization service could not be reached for this recording. The full transcript is included below."

// Summarize asks the provider for a summary of the transcript. Provider
// failures are absorbed: the run always gets a usable Result.
func (s *implSummarizer) Summarize(ctx context.Context, transcriptText string) Result {
	text, err := s.complete(ctx, transcriptText)
	if err != nil {
		s.logger.Warn(ctx, "Summarization failed, using fallback: %v", err)
		return Result{Text: FallbackText, Fallback: true}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn(ctx, "Summarization returned empty text, using fallback")
		return Result{Text: FallbackText, Fallback: true}
	}

	return Result{Text: text}
}

// complete tries each configured API key, rotating on rate limits.
func (s *implSummarizer) complete(ctx context.Context, transcriptText string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", fmt.Errorf("no API keys configured")
	}

	prompt := fmt.Sprintf(summaryPrompt, transcriptText)

	var lastErr error
	for range s.apiKeys {
		idx, key := s.activeKey()

		text, err := s.generate(ctx, key, prompt)
		if err != nil {
			if isRateLimited(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) activeKey() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

// rotateKey advances past the rate-limited key. If a concurrent run already
// rotated away from it, the rotation is kept as is.
func (s *implSummarizer) rotateKey(from int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == from {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// generateGemini returns the production generate function for the model.
func generateGemini(model string) func(ctx context.Context, apiKey, prompt string) (string, error) {
	return func(ctx context.Context, apiKey, prompt string) (string, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return "", fmt.Errorf("create client: %w", err)
		}

		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}

		if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
			return "", fmt.Errorf("empty response from Gemini")
		}

		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}
}
