package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mgpai22/likhit/internal/transcript"
)

// single segment text to translate, index ties it back to the transcript
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
type Translator interface {
	Translate(ctx context.Context, items []Item) ([]Item, error)
}

type Options struct {
	SourceLanguage string
	TargetLanguage string
	Model          string
	BatchSize      int // items per API request
}

const DefaultBatchSize = 50

// Result translates every segment of a transcription result, returning a
// new result; the input is left untouched.
func Result(
	ctx context.Context,
	translator Translator,
	result *transcript.Result,
	targetLanguage string,
) (*transcript.Result, error) {
	items := make([]Item, 0, len(result.Segments))
	for i, seg := range result.Segments {
		items = append(items, Item{Index: i, Text: seg.Text})
	}

	translated, err := translator.Translate(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(translated) != len(items) {
		return nil, fmt.Errorf(
			"expected %d translated segments, got %d",
			len(items),
			len(translated),
		)
	}

	out := &transcript.Result{
		Language:    targetLanguage,
		Duration:    result.Duration,
		RawResponse: result.RawResponse,
		Segments:    make([]transcript.Segment, len(result.Segments)),
	}
	copy(out.Segments, result.Segments)

	for _, item := range translated {
		if item.Index < 0 || item.Index >= len(out.Segments) {
			return nil, fmt.Errorf("translated index %d out of range", item.Index)
		}
		out.Segments[item.Index].Text = strings.TrimSpace(item.Text)
	}
	out.Text = out.PlainText()

	return out, nil
}

// BuildPrompt creates the translation prompt for LLM providers.
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.SourceLanguage != "" && opts.SourceLanguage != "auto" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s transcript segments to %s.\n\n",
			opts.SourceLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following transcript segments to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("3. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("4. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("5. Do not add any explanation or markdown formatting.\n\n")

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
