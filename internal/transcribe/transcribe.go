package transcribe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcript"
)

// interface every transcription backend satisfies
type Transcriber interface {
	Transcribe(
		ctx context.Context,
		src source.Source,
		opts transcript.Options,
	) (*transcript.Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderMock     Provider = "mock"
	ProviderWhisper  Provider = "whisper"
	ProviderDeepgram Provider = "deepgram"
	ProviderGemini   Provider = "gemini"
)

// TranscriptionError reports a failed provider call. A failed call never
// yields a partially populated result.
type TranscriptionError struct {
	Provider Provider
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s: transcription failed: %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

func errorf(p Provider, format string, args ...any) error {
	return &TranscriptionError{Provider: p, Err: fmt.Errorf(format, args...)}
}

// Constructor builds a transcriber from a credential.
type Constructor func(ctx context.Context, apiKey string) (Transcriber, error)

var constructors = map[Provider]Constructor{
	ProviderMock: func(ctx context.Context, apiKey string) (Transcriber, error) {
		return NewMockTranscriber(), nil
	},
	ProviderWhisper: func(ctx context.Context, apiKey string) (Transcriber, error) {
		return NewWhisperTranscriber(apiKey)
	},
	ProviderDeepgram: func(ctx context.Context, apiKey string) (Transcriber, error) {
		return NewDeepgramTranscriber(apiKey)
	},
	ProviderGemini: func(ctx context.Context, apiKey string) (Transcriber, error) {
		return NewGeminiTranscriber(ctx, apiKey)
	},
}

// Register adds a custom provider. New providers plug in here rather than
// at the call sites.
func Register(provider Provider, constructor Constructor) {
	constructors[provider] = constructor
}

// creates a transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
) (Transcriber, error) {
	constructor, ok := constructors[Provider(strings.ToLower(string(provider)))]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	return constructor(ctx, apiKey)
}

// finalize enforces the result contract shared by all providers: non-empty
// segment texts, time-ordered non-overlapping segments, full text present,
// duration at least the last segment end.
func finalize(result *transcript.Result) *transcript.Result {
	segments := make([]transcript.Segment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime < segments[j].StartTime
	})

	ordered := segments[:0]
	for _, seg := range segments {
		if len(ordered) > 0 && seg.StartTime < ordered[len(ordered)-1].EndTime {
			seg.StartTime = ordered[len(ordered)-1].EndTime
		}
		if seg.EndTime <= seg.StartTime {
			continue
		}
		ordered = append(ordered, seg)
	}

	result.Segments = ordered

	if result.Text == "" && len(ordered) > 0 {
		result.Text = result.PlainText()
	}

	if len(ordered) > 0 {
		if last := ordered[len(ordered)-1].EndTime; result.Duration < last {
			result.Duration = last
		}
	}

	return result
}
