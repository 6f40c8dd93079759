package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcript"
)

// implements Transcriber using Google Gemini
type GeminiTranscriber struct {
	client *genai.Client
}

// segment from Gemini's JSON response
type geminiSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func NewGeminiTranscriber(
	ctx context.Context,
	apiKey string,
) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, errorf(ProviderGemini, "API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, errorf(ProviderGemini, "failed to create client: %w", err)
	}

	return &GeminiTranscriber{client: client}, nil
}

func (t *GeminiTranscriber) Transcribe(
	ctx context.Context,
	src source.Source,
	opts transcript.Options,
) (*transcript.Result, error) {
	if src.Kind != source.KindFile {
		return nil, errorf(
			ProviderGemini,
			"remote URL sources are not supported, download %q first",
			src.URL,
		)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, src.Path, nil)
	if err != nil {
		return nil, errorf(ProviderGemini, "failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(buildGeminiPrompt(opts)),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(
		ctx,
		geminiModel(opts.Quality),
		contents,
		nil,
	)
	if err != nil {
		return nil, errorf(ProviderGemini, "%w", err)
	}

	return t.parseResponse(resp, opts)
}

// geminiModel maps quality presets to Gemini model names.
func geminiModel(quality transcript.Quality) string {
	switch quality {
	case transcript.QualityFast:
		return "gemini-2.5-flash-lite"
	case transcript.QualityBestQuality:
		return "gemini-2.5-pro"
	default:
		return "gemini-2.5-flash"
	}
}

func buildGeminiPrompt(opts transcript.Options) string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers). ")

	if opts.Language != "" && opts.Language != "auto" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", opts.Language))
	}
	if opts.Diarization {
		sb.WriteString("Prefix each text with the speaker label in square brackets. ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

func (t *GeminiTranscriber) parseResponse(
	resp *genai.GenerateContentResponse,
	opts transcript.Options,
) (*transcript.Result, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errorf(ProviderGemini, "empty response")
	}

	var responseText string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			responseText += part.Text
		}
	}

	if responseText == "" {
		return nil, errorf(ProviderGemini, "no text in response")
	}

	cleaned := stripCodeFences(responseText)

	var geminiSegments []geminiSegment
	if err := json.Unmarshal([]byte(cleaned), &geminiSegments); err != nil {
		return nil, errorf(
			ProviderGemini,
			"malformed JSON response: %w (response: %s)",
			err,
			truncate(cleaned, 200),
		)
	}

	language := opts.Language
	if language == "" || language == "auto" {
		language = "en"
	}

	segments := make([]transcript.Segment, 0, len(geminiSegments))
	for _, seg := range geminiSegments {
		segments = append(segments, transcript.Segment{
			StartTime: time.Duration(seg.Start * float64(time.Second)),
			EndTime:   time.Duration(seg.End * float64(time.Second)),
			Text:      seg.Text,
		})
	}

	return finalize(&transcript.Result{
		Language: language,
		Segments: segments,
	}), nil
}

var codeFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown code fences from the model output
func stripCodeFences(s string) string {
	s = codeFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
