package flatfile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"iwatcher/internal/delivery"
)

const (
	fontName = "Calibri"
	fontSize = 11
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// renderDocx writes the delivery document as a styled docx: title, metadata
// line, the summary markdown rendered into paragraphs, then the transcript
// one utterance line per paragraph.
func renderDocx(req delivery.Request, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), req.FileName, true, 16)
	addRun(doc.AddParagraph(""), fmt.Sprintf("Confidence: %.0f%% | Duration: %s",
		req.Confidence*100, req.Duration.Round(time.Second)), false, fontSize)

	addRun(doc.AddParagraph(""), "Summary", true, 14)
	addMarkdown(doc, req.SummaryText)

	addRun(doc.AddParagraph(""), "Transcript", true, 14)
	for _, line := range strings.Split(req.TranscriptText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			addRun(doc.AddParagraph(""), trimmed, false, fontSize)
		}
	}

	return doc.SaveTo(outputPath)
}

func addMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRun(doc.AddParagraph(""), "• "+m[1], false, fontSize)
			continue
		}

		if m := reNumbered.FindStringSubmatch(trimmed); m != nil {
			addRun(doc.AddParagraph(""), trimmed, false, fontSize)
			continue
		}

		addRun(doc.AddParagraph(""), trimmed, false, fontSize)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 15
	case 2:
		return 14
	case 3:
		return 12
	default:
		return fontSize
	}
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = stripInlineMarkdown(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func stripInlineMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
