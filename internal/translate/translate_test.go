package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/likhit/internal/transcript"
)

type fakeTranslator struct {
	prefix string
	err    error
	drop   bool
}

func (f *fakeTranslator) Translate(ctx context.Context, items []Item) ([]Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if f.drop && item.Index == 0 {
			continue
		}
		out = append(out, Item{Index: item.Index, Text: f.prefix + item.Text})
	}
	return out, nil
}

func sampleTranscript() *transcript.Result {
	return &transcript.Result{
		Text:     "Hello. Goodbye.",
		Language: "en",
		Duration: 4 * time.Second,
		Segments: []transcript.Segment{
			{StartTime: 0, EndTime: 2 * time.Second, Text: "Hello.", Speaker: "speaker_0"},
			{StartTime: 2 * time.Second, EndTime: 4 * time.Second, Text: "Goodbye."},
		},
	}
}

func TestResult(t *testing.T) {
	original := sampleTranscript()
	translator := &fakeTranslator{prefix: "ES: "}

	translated, err := Result(context.Background(), translator, original, "es")
	if err != nil {
		t.Fatalf("Result error: %v", err)
	}

	if translated.Language != "es" {
		t.Errorf("Language = %q, want es", translated.Language)
	}
	if translated.Duration != original.Duration {
		t.Errorf("Duration = %v, want %v", translated.Duration, original.Duration)
	}
	if len(translated.Segments) != 2 {
		t.Fatalf("segment count = %d", len(translated.Segments))
	}

	if translated.Segments[0].Text != "ES: Hello." {
		t.Errorf("segment 0 text = %q", translated.Segments[0].Text)
	}
	// timing and speakers survive translation
	if translated.Segments[0].Speaker != "speaker_0" {
		t.Errorf("segment 0 speaker = %q", translated.Segments[0].Speaker)
	}
	if translated.Segments[1].StartTime != 2*time.Second {
		t.Errorf("segment 1 start = %v", translated.Segments[1].StartTime)
	}
	if !strings.Contains(translated.Text, "ES: Hello.") {
		t.Errorf("full text not rebuilt: %q", translated.Text)
	}

	// input untouched
	if original.Segments[0].Text != "Hello." {
		t.Errorf("original mutated: %q", original.Segments[0].Text)
	}
	if original.Language != "en" {
		t.Errorf("original language mutated: %q", original.Language)
	}
}

func TestResultErrors(t *testing.T) {
	original := sampleTranscript()

	if _, err := Result(
		context.Background(),
		&fakeTranslator{err: errors.New("boom")},
		original,
		"es",
	); err == nil {
		t.Error("expected translator error to propagate")
	}

	if _, err := Result(
		context.Background(),
		&fakeTranslator{drop: true},
		original,
		"es",
	); err == nil {
		t.Error("expected count mismatch error")
	}
}

func TestBuildPrompt(t *testing.T) {
	items := []Item{
		{Index: 0, Text: "Hello."},
		{Index: 1, Text: "Goodbye."},
	}

	prompt := BuildPrompt(Options{SourceLanguage: "en", TargetLanguage: "spanish"}, items)

	if !strings.Contains(prompt, "en transcript segments to spanish") {
		t.Errorf("prompt missing language pair: %q", prompt)
	}
	if !strings.Contains(prompt, `"text": "Hello."`) {
		t.Errorf("prompt missing input JSON: %q", prompt)
	}
	if !strings.Contains(prompt, "JSON array") {
		t.Errorf("prompt missing output instruction: %q", prompt)
	}

	auto := BuildPrompt(Options{SourceLanguage: "auto", TargetLanguage: "french"}, items)
	if !strings.Contains(auto, "transcript segments to french") {
		t.Errorf("auto prompt wrong: %q", auto)
	}
	if strings.Contains(auto, "auto transcript") {
		t.Errorf("auto prompt should omit source language: %q", auto)
	}
}

func TestNewAnthropicTranslator(t *testing.T) {
	if _, err := NewAnthropicTranslator("", Options{TargetLanguage: "es"}); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewAnthropicTranslator("key", Options{}); err == nil {
		t.Error("expected error for missing target language")
	}

	translator, err := NewAnthropicTranslator("key", Options{TargetLanguage: "es"})
	if err != nil {
		t.Fatalf("NewAnthropicTranslator: %v", err)
	}
	if translator.batchSize() != DefaultBatchSize {
		t.Errorf("batchSize = %d", translator.batchSize())
	}

	translator, err = NewAnthropicTranslator("key", Options{TargetLanguage: "es", BatchSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if translator.batchSize() != 10 {
		t.Errorf("batchSize = %d, want 10", translator.batchSize())
	}
}

func TestStripTranslationCodeFences(t *testing.T) {
	input := "```json\n[{\"index\": 0, \"text\": \"Hola.\"}]\n```"
	want := `[{"index": 0, "text": "Hola."}]`
	if got := stripCodeFences(input); got != want {
		t.Errorf("stripCodeFences = %q, want %q", got, want)
	}
}
