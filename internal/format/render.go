package format

import (
	"fmt"
	"strings"

	"github.com/mgpai22/likhit/internal/transcript"
)

// plain transcript, no timing markup
type TextRenderer struct{}

func (r *TextRenderer) Render(
	result *transcript.Result,
	opts transcript.Options,
) (string, error) {
	if err := checkSegments(FormatText, result); err != nil {
		return "", err
	}
	return result.PlainText() + "\n", nil
}

// metadata header followed by one timestamped line per segment
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(
	result *transcript.Result,
	opts transcript.Options,
) (string, error) {
	if err := checkSegments(FormatMarkdown, result); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Transcript\n\n")
	sb.WriteString(fmt.Sprintf(
		"**Language:** %s | **Duration:** %.1fs\n\n---\n\n",
		result.Language,
		result.Duration.Seconds(),
	))

	if len(result.Segments) == 0 {
		if result.Text != "" {
			sb.WriteString(result.Text)
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}

	for _, seg := range result.Segments {
		sb.WriteString(fmt.Sprintf(
			"**[%s - %s]** %s",
			formatSRTTime(seg.StartTime),
			formatSRTTime(seg.EndTime),
			seg.Text,
		))
		if seg.Speaker != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", seg.Speaker))
		}
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

// SubRip cues: 1-based index, comma-millisecond timestamps, wrapped text
type SRTRenderer struct{}

func (r *SRTRenderer) Render(
	result *transcript.Result,
	opts transcript.Options,
) (string, error) {
	if err := checkSegments(FormatSRT, result); err != nil {
		return "", err
	}

	if len(result.Segments) == 0 {
		if result.Text == "" {
			return "", nil
		}
		return result.Text + "\n", nil
	}

	var sb strings.Builder
	for i, seg := range result.Segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(seg.StartTime),
			formatSRTTime(seg.EndTime)))
		sb.WriteString(wrapText(seg.Text, maxLineWidth))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

// WebVTT cues: header line, dot-millisecond timestamps, no cue index
type VTTRenderer struct{}

func (r *VTTRenderer) Render(
	result *transcript.Result,
	opts transcript.Options,
) (string, error) {
	if err := checkSegments(FormatVTT, result); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	if len(result.Segments) == 0 {
		if result.Text != "" {
			sb.WriteString("NOTE ")
			sb.WriteString(result.Text)
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}

	for _, seg := range result.Segments {
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(seg.StartTime),
			formatVTTTime(seg.EndTime)))
		sb.WriteString(wrapText(seg.Text, maxLineWidth))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
