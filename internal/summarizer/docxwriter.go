package summarizer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reCueTime = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[.,]\d{3} --> `)
)

// block is one rendered markdown line.
type block struct {
	text  string
	level int // heading level, 0 for body text
}

// markdownBlocks flattens markdown into headings and body paragraphs.
// Bullets keep a bullet glyph; numbered items keep their number.
func markdownBlocks(markdown string) []block {
	var blocks []block
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == "---":
			continue
		case reHeading.MatchString(trimmed):
			m := reHeading.FindStringSubmatch(trimmed)
			blocks = append(blocks, block{text: m[2], level: len(m[1])})
		case reBullet.MatchString(trimmed):
			m := reBullet.FindStringSubmatch(trimmed)
			blocks = append(blocks, block{text: "\u2022 " + m[1]})
		default:
			blocks = append(blocks, block{text: trimmed})
		}
	}
	return blocks
}

// markdownToDocx converts markdown text to a styled docx file.
func markdownToDocx(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, b := range markdownBlocks(markdown) {
		p := doc.AddParagraph("")
		if b.level > 0 {
			addStyledRun(p, b.text, true, headingSize(b.level))
			continue
		}
		addRichText(p, b.text)
	}

	return doc.SaveTo(outputPath)
}

// transcriptToDocx writes the spoken text of a transcript body as a Word
// document. Cue timestamps are dropped; each cue becomes a paragraph.
func transcriptToDocx(title, body, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	for _, t := range spokenLines(body) {
		p := doc.AddParagraph("")
		p.AddText(t).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

// spokenLines returns the non-timestamp lines of body with consecutive
// repeats collapsed.
func spokenLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || reCueTime.MatchString(trimmed) {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == trimmed {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			clean := cleanMarkdownInline(part)
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			clean := cleanMarkdownInline(matches[i][1])
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
