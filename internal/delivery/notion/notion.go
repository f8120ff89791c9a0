// Package notion delivers run output to a Notion database as one page per
// recording. Notion caps rich text at 2000 characters per block, which is why
// the page body is built from pre-chunked blocks.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"iwatcher/internal/chunk"
	"iwatcher/internal/config"
	"iwatcher/internal/delivery"
	"iwatcher/internal/logger"
)

const notionVersion = "2022-06-28"

type implSink struct {
	baseURL    string
	token      string
	databaseID string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates the structured Notion sink.
func New(cfg *config.Config, log logger.Logger) delivery.Sink {
	return &implSink{
		baseURL:    cfg.Notion.BaseURL,
		token:      cfg.Secrets.NotionToken,
		databaseID: cfg.Notion.DatabaseID,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     log,
	}
}

func (s *implSink) Name() string { return "notion" }

type richText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *blockBody `json:"paragraph,omitempty"`
	Heading2  *blockBody `json:"heading_2,omitempty"`
}

type blockBody struct {
	RichText []richText `json:"rich_text"`
}

type createPageRequest struct {
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties map[string]interface{} `json:"properties"`
	Children   []block                `json:"children"`
}

type createPageResponse struct {
	ID string `json:"id"`
}

// Deliver assembles the whole page, blocks included, and creates it in a
// single call so a failure never leaves a partially visible page.
func (s *implSink) Deliver(ctx context.Context, req delivery.Request) (string, error) {
	payload := createPageRequest{
		Properties: map[string]interface{}{
			"Title": map[string]interface{}{
				"title": []richText{text(pageTitle(req))},
			},
		},
		Children: pageChildren(req),
	}
	payload.Parent.DatabaseID = s.databaseID

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode page: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create page request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.token)
	httpReq.Header.Set("Notion-Version", notionVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read create page response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("notion returned HTTP %d: %s", resp.StatusCode, respBody)
	}

	var page createPageResponse
	if err := json.Unmarshal(respBody, &page); err != nil {
		return "", fmt.Errorf("parse create page response: %w", err)
	}

	return page.ID, nil
}

func pageTitle(req delivery.Request) string {
	return fmt.Sprintf("%s - %s", req.FileName, req.CreatedAt.Format("2006-01-02 15:04"))
}

func pageChildren(req delivery.Request) []block {
	children := make([]block, 0, len(req.SummaryBlocks)+len(req.TranscriptBlocks)+3)

	meta := fmt.Sprintf("Confidence: %.0f%% | Duration: %s",
		req.Confidence*100, req.Duration.Round(time.Second))
	children = append(children, paragraph(meta))

	children = append(children, heading("Summary"))
	children = append(children, paragraphs(req.SummaryBlocks)...)

	children = append(children, heading("Transcript"))
	children = append(children, paragraphs(req.TranscriptBlocks)...)

	return children
}

func paragraphs(blocks []chunk.Block) []block {
	out := make([]block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, paragraph(b.Text))
	}
	return out
}

func paragraph(content string) block {
	return block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &blockBody{RichText: []richText{text(content)}},
	}
}

func heading(content string) block {
	return block{
		Object:   "block",
		Type:     "heading_2",
		Heading2: &blockBody{RichText: []richText{text(content)}},
	}
}

func text(content string) richText {
	var rt richText
	rt.Text.Content = content
	return rt
}
