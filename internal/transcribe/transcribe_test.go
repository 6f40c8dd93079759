package transcribe

import (
	"context"
	"testing"
	"time"

	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcript"
)

func TestFactory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		provider Provider
		apiKey   string
		wantErr  bool
	}{
		{"mock needs no key", ProviderMock, "", false},
		{"whisper with key", ProviderWhisper, "sk-test", false},
		{"whisper without key", ProviderWhisper, "", true},
		{"deepgram with key", ProviderDeepgram, "dg-test", false},
		{"case insensitive", Provider("MOCK"), "", false},
		{"unknown provider", Provider("azure"), "key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcriber, err := Factory(ctx, tt.provider, tt.apiKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Factory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && transcriber == nil {
				t.Error("Factory() returned nil transcriber without error")
			}
		})
	}
}

func TestRegisterCustomProvider(t *testing.T) {
	custom := Provider("custom")
	Register(custom, func(ctx context.Context, apiKey string) (Transcriber, error) {
		return NewMockTranscriber(), nil
	})
	defer delete(constructors, custom)

	transcriber, err := Factory(context.Background(), custom, "")
	if err != nil {
		t.Fatalf("Factory(custom) error: %v", err)
	}
	if transcriber == nil {
		t.Fatal("Factory(custom) returned nil")
	}
}

func TestFinalize(t *testing.T) {
	result := &transcript.Result{
		Segments: []transcript.Segment{
			{StartTime: 4 * time.Second, EndTime: 6 * time.Second, Text: "third"},
			{StartTime: 0, EndTime: 2 * time.Second, Text: "first"},
			{StartTime: time.Second, EndTime: 4 * time.Second, Text: "  second  "},
			{StartTime: 7 * time.Second, EndTime: 8 * time.Second, Text: "   "},
		},
	}

	finalized := finalize(result)

	if err := finalized.Validate(); err != nil {
		t.Fatalf("finalized result invalid: %v", err)
	}

	if len(finalized.Segments) != 3 {
		t.Fatalf("segment count = %d, want 3 (blank dropped)", len(finalized.Segments))
	}
	if finalized.Segments[0].Text != "first" || finalized.Segments[1].Text != "second" {
		t.Errorf("segments not reordered: %v", finalized.Segments)
	}
	// overlap clamped to previous end
	if finalized.Segments[1].StartTime != 2*time.Second {
		t.Errorf("overlap not clamped, start = %v", finalized.Segments[1].StartTime)
	}
	if finalized.Text == "" {
		t.Error("full text not derived from segments")
	}
	if finalized.Duration < 6*time.Second {
		t.Errorf("duration = %v, want at least last segment end", finalized.Duration)
	}
}

func TestFinalizeDropsSwallowedSegments(t *testing.T) {
	result := &transcript.Result{
		Segments: []transcript.Segment{
			{StartTime: 0, EndTime: 10 * time.Second, Text: "long"},
			{StartTime: 2 * time.Second, EndTime: 4 * time.Second, Text: "inside"},
		},
	}

	finalized := finalize(result)
	if len(finalized.Segments) != 1 {
		t.Fatalf("segment count = %d, want 1", len(finalized.Segments))
	}
	if finalized.Segments[0].Text != "long" {
		t.Errorf("kept segment = %q", finalized.Segments[0].Text)
	}
	if err := finalized.Validate(); err != nil {
		t.Errorf("finalized result invalid: %v", err)
	}
}

func TestMockTranscribe(t *testing.T) {
	transcriber := NewMockTranscriber()
	src := source.Source{Kind: source.KindFile, Path: "talk.mp3"}

	opts := transcript.DefaultOptions()
	result, err := transcriber.Transcribe(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}

	if len(result.Segments) == 0 {
		t.Fatal("mock must produce at least one segment")
	}
	if result.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", result.Duration)
	}
	if result.Language != "en" {
		t.Errorf("Language = %q, want default en", result.Language)
	}
	if err := result.Validate(); err != nil {
		t.Errorf("mock result invalid: %v", err)
	}

	for i, seg := range result.Segments {
		if seg.Confidence != mockConfidence {
			t.Errorf("segment %d confidence = %v", i, seg.Confidence)
		}
		if seg.Speaker != "" {
			t.Errorf("segment %d has speaker without diarization", i)
		}
	}
}

func TestMockTranscribeRequestedLanguage(t *testing.T) {
	transcriber := NewMockTranscriber()
	src := source.Source{Kind: source.KindFile, Path: "talk.mp3"}

	opts := transcript.DefaultOptions()
	opts.Language = "fr"

	result, err := transcriber.Transcribe(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if result.Language != "fr" {
		t.Errorf("Language = %q, want fr", result.Language)
	}
	if len(result.Segments) != len(mockTranscripts["fr"]) {
		t.Errorf("segment count = %d", len(result.Segments))
	}
}

func TestMockTranscribeDeterministic(t *testing.T) {
	transcriber := NewMockTranscriber()
	src := source.Source{Kind: source.KindFile, Path: "talk.mp3"}
	opts := transcript.DefaultOptions()
	opts.Diarization = true

	first, err := transcriber.Transcribe(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := transcriber.Transcribe(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if len(first.Segments) != len(second.Segments) {
		t.Fatal("segment counts differ between calls")
	}
	for i := range first.Segments {
		if first.Segments[i] != second.Segments[i] {
			t.Errorf("segment %d differs between calls", i)
		}
	}

	// diarization alternates speakers
	if first.Segments[0].Speaker != "speaker_0" {
		t.Errorf("first speaker = %q", first.Segments[0].Speaker)
	}
	if len(first.Segments) > 1 && first.Segments[1].Speaker != "speaker_1" {
		t.Errorf("second speaker = %q", first.Segments[1].Speaker)
	}
}

func TestMockTranscribeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transcriber := NewMockTranscriber()
	_, err := transcriber.Transcribe(ctx, source.Source{Kind: source.KindFile, Path: "x.mp3"}, transcript.DefaultOptions())
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
