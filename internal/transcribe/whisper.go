package transcribe

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcript"
)

// implements Transcriber using the OpenAI Whisper audio API
type WhisperTranscriber struct {
	client openai.Client
	model  string
}

// segment from the verbose_json response
type whisperSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	AvgLogprob float64 `json:"avg_logprob"`
}

// verbose_json response structure
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewWhisperTranscriber(apiKey string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, errorf(ProviderWhisper, "API key is required")
	}

	return &WhisperTranscriber{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  "whisper-1",
	}, nil
}

func (t *WhisperTranscriber) Transcribe(
	ctx context.Context,
	src source.Source,
	opts transcript.Options,
) (*transcript.Result, error) {
	if src.Kind != source.KindFile {
		return nil, errorf(
			ProviderWhisper,
			"remote URL sources are not supported, download %q first",
			src.URL,
		)
	}

	file, err := os.Open(src.Path)
	if err != nil {
		return nil, errorf(ProviderWhisper, "failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if opts.Timestamps == transcript.TimestampsWord {
		params.TimestampGranularities = []string{"segment", "word"}
	}
	if opts.Language != "" && opts.Language != "auto" {
		params.Language = openai.String(opts.Language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, errorf(ProviderWhisper, "%w", err)
	}

	return t.parseVerboseResponse(resp.RawJSON(), opts)
}

func (t *WhisperTranscriber) parseVerboseResponse(
	rawJSON string,
	opts transcript.Options,
) (*transcript.Result, error) {
	if rawJSON == "" {
		return nil, errorf(ProviderWhisper, "empty response")
	}

	var resp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, errorf(
			ProviderWhisper,
			"malformed verbose_json response: %w",
			err,
		)
	}

	if len(resp.Segments) == 0 && strings.TrimSpace(resp.Text) == "" {
		return nil, errorf(ProviderWhisper, "no segments or text in response")
	}

	language := resp.Language
	if language == "" {
		language = opts.Language
	}

	duration := time.Duration(resp.Duration * float64(time.Second))

	segments := make([]transcript.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, transcript.Segment{
			StartTime:  time.Duration(seg.Start * float64(time.Second)),
			EndTime:    time.Duration(seg.End * float64(time.Second)),
			Text:       seg.Text,
			Confidence: logprobConfidence(seg.AvgLogprob),
		})
	}

	// single full-text segment when the API returned no timing detail
	if len(segments) == 0 {
		end := duration
		if end <= 0 {
			end = time.Second
		}
		segments = append(segments, transcript.Segment{
			StartTime: 0,
			EndTime:   end,
			Text:      strings.TrimSpace(resp.Text),
		})
	}

	var raw map[string]any
	_ = json.Unmarshal([]byte(rawJSON), &raw)

	return finalize(&transcript.Result{
		Text:        strings.TrimSpace(resp.Text),
		Language:    language,
		Segments:    segments,
		Duration:    duration,
		RawResponse: raw,
	}), nil
}

// logprobConfidence maps the average token log-probability onto [0,1].
func logprobConfidence(avgLogprob float64) float64 {
	if avgLogprob == 0 {
		return 0
	}
	conf := math.Exp(avgLogprob)
	if conf > 1 {
		return 1
	}
	if conf < 0 {
		return 0
	}
	return conf
}
