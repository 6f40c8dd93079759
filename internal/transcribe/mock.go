package transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcript"
)

// canned transcripts keyed by language code
var mockTranscripts = map[string][]string{
	"en": {
		"Welcome to this presentation.",
		"Today we will discuss transcription technology.",
		"Machine learning has revolutionized how we process audio.",
		"The accuracy of modern speech-to-text systems is impressive.",
		"From interviews to lectures, transcription saves time and effort.",
	},
	"fr": {
		"Bienvenue dans cette présentation.",
		"Nous discuterons de la technologie de transcription.",
		"L'apprentissage automatique a révolutionné le traitement audio.",
	},
}

const (
	mockWordsPerSecond = 3.0
	mockConfidence     = 0.95
	mockDefaultLang    = "en"
)

// MockTranscriber fabricates a deterministic transcript without any network
// access. It is the default provider and the test double for everything else.
type MockTranscriber struct{}

func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

func (t *MockTranscriber) Transcribe(
	ctx context.Context,
	src source.Source,
	opts transcript.Options,
) (*transcript.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errorf(ProviderMock, "cancelled: %w", err)
	}

	lang := opts.Language
	if lang == "" || lang == "auto" {
		lang = mockDefaultLang
	}

	sentences, ok := mockTranscripts[lang]
	if !ok {
		sentences = mockTranscripts[mockDefaultLang]
	}

	var segments []transcript.Segment
	var start time.Duration

	for i, sentence := range sentences {
		// rough speaking rate, at least one second per sentence
		words := len(strings.Fields(sentence))
		dur := time.Duration(float64(words) / mockWordsPerSecond * float64(time.Second))
		if dur < time.Second {
			dur = time.Second
		}

		seg := transcript.Segment{
			StartTime:  start,
			EndTime:    start + dur,
			Text:       sentence,
			Confidence: mockConfidence,
		}
		if opts.Diarization {
			if i%2 == 0 {
				seg.Speaker = "speaker_0"
			} else {
				seg.Speaker = "speaker_1"
			}
		}

		segments = append(segments, seg)
		start += dur
	}

	result := &transcript.Result{
		Text:     strings.Join(sentences, " "),
		Language: lang,
		Segments: segments,
		Duration: start,
		RawResponse: map[string]any{
			"provider": string(ProviderMock),
			"source":   src.String(),
			"quality":  string(opts.Quality),
		},
	}

	return finalize(result), nil
}
