package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/transcript"
)

const summaryPrompt = `You are analysing the transcript of a video. Write a DETAILED summary in the language the transcript is written in.

Requirements:
- Start with a one-sentence title describing the topic of the video
- List ALL main points in the order they appear, with their timestamps
- Explain each point, including caveats, tips and warnings that are mentioned
- Use markdown: headings, bullet points, bold for key terms
- Finish with an "Important notes" section if anything needs emphasis

Transcript:
---
%s
---`

// SummaryPath returns the markdown summary path for a video.
func SummaryPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".summary.md"
}

// DocxPath returns the Word export path for a video's summary.
func DocxPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".summary.docx"
}

// TranscriptDocxPath returns the Word export path for a video's transcript.
func TranscriptDocxPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".transcript.docx"
}

var errEmptyTranscript = errors.New("transcript is empty")

// SummarizeAll walks the roots and summarizes transcripts that have no
// summary next to them.
func (s *implSummarizer) SummarizeAll(ctx context.Context, roots []string) (Report, error) {
	var pending []string
	for _, root := range roots {
		videos, err := media.Scan(root)
		if err != nil {
			s.logger.Warn(ctx, "Skipping root %s: %v", root, err)
			continue
		}
		for _, v := range videos {
			if !media.HasTranscript(v) {
				continue
			}
			if _, err := os.Stat(SummaryPath(v)); err == nil {
				continue
			}
			pending = append(pending, v)
		}
	}

	var report Report
	if len(pending) == 0 {
		s.logger.Info(ctx, "No transcripts need a summary")
		return report, nil
	}
	s.logger.Info(ctx, "Found %d transcripts to summarize", len(pending))

	for i, videoPath := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		s.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(pending), media.Stem(videoPath))
		err := s.Summarize(ctx, videoPath)
		switch {
		case errors.Is(err, errEmptyTranscript):
			report.Skipped++
		case err != nil:
			s.logger.Error(ctx, "Failed to summarize %s: %v", videoPath, err)
			report.Failed++
		default:
			report.Written++
		}
	}

	s.logger.Info(ctx, "Summary complete: %d written, %d skipped, %d failed", report.Written, report.Skipped, report.Failed)
	return report, nil
}

// Summarize writes <stem>.summary.md (and the Word exports when enabled).
func (s *implSummarizer) Summarize(ctx context.Context, videoPath string) error {
	f, err := transcript.Read(media.TranscriptPath(videoPath))
	if err != nil {
		return err
	}
	if strings.TrimSpace(f.Body) == "" {
		return errEmptyTranscript
	}

	summary, err := s.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, strings.TrimSpace(f.Body)))
	if err != nil {
		return err
	}

	name := media.Stem(videoPath)
	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		name,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)

	mdPath := SummaryPath(videoPath)
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if s.docx {
		if err := markdownToDocx(name, summary, DocxPath(videoPath)); err != nil {
			s.logger.Warn(ctx, "Failed to export %s: %v", DocxPath(videoPath), err)
		}
		if err := transcriptToDocx(name, f.Body, TranscriptDocxPath(videoPath)); err != nil {
			s.logger.Warn(ctx, "Failed to export %s: %v", TranscriptDocxPath(videoPath), err)
		}
	}

	s.logger.Info(ctx, "[DONE] %s -> %s", name, mdPath)
	return nil
}
