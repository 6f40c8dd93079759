package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcript"
)

const deepgramListenURL = "https://api.deepgram.com/v1/listen"

// implements Transcriber using the Deepgram pre-recorded API
type DeepgramTranscriber struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type deepgramResponse struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
			Speaker    int     `json:"speaker"`
		} `json:"utterances"`
	} `json:"results"`
}

func NewDeepgramTranscriber(apiKey string) (*DeepgramTranscriber, error) {
	if apiKey == "" {
		return nil, errorf(ProviderDeepgram, "API key is required")
	}

	return &DeepgramTranscriber{
		apiKey:  apiKey,
		baseURL: deepgramListenURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}, nil
}

func (t *DeepgramTranscriber) Transcribe(
	ctx context.Context,
	src source.Source,
	opts transcript.Options,
) (*transcript.Result, error) {
	req, err := t.buildRequest(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, errorf(ProviderDeepgram, "request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorf(ProviderDeepgram, "failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden {
		return nil, errorf(ProviderDeepgram, "authentication failed (HTTP %d)", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errorf(ProviderDeepgram, "rate limited (HTTP 429)")
	}
	if resp.StatusCode >= 300 {
		return nil, errorf(
			ProviderDeepgram,
			"HTTP %d: %s",
			resp.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	return t.parseResponse(body, opts)
}

func (t *DeepgramTranscriber) buildRequest(
	ctx context.Context,
	src source.Source,
	opts transcript.Options,
) (*http.Request, error) {
	params := url.Values{}
	params.Set("model", deepgramModel(opts.Quality))
	params.Set("punctuate", strconv.FormatBool(opts.SmartFormat))
	params.Set("smart_format", strconv.FormatBool(opts.SmartFormat))
	params.Set("diarize", strconv.FormatBool(opts.Diarization))
	params.Set("utterances", "true")
	if opts.Language == "" || opts.Language == "auto" {
		params.Set("detect_language", "true")
	} else {
		params.Set("language", opts.Language)
	}

	endpoint := t.baseURL + "?" + params.Encode()

	var req *http.Request
	var err error

	switch src.Kind {
	case source.KindURL:
		payload, merr := json.Marshal(map[string]string{"url": src.URL})
		if merr != nil {
			return nil, errorf(ProviderDeepgram, "%w", merr)
		}
		req, err = http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			endpoint,
			bytes.NewReader(payload),
		)
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	case source.KindFile:
		file, oerr := os.Open(src.Path)
		if oerr != nil {
			return nil, errorf(ProviderDeepgram, "failed to open audio file: %w", oerr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, file)
		if err == nil {
			req.Header.Set("Content-Type", mediaContentType(src.Path))
		}
	default:
		return nil, errorf(ProviderDeepgram, "unsupported source kind %q", src.Kind)
	}

	if err != nil {
		return nil, errorf(ProviderDeepgram, "%w", err)
	}

	req.Header.Set("Authorization", "Token "+t.apiKey)
	return req, nil
}

func (t *DeepgramTranscriber) parseResponse(
	body []byte,
	opts transcript.Options,
) (*transcript.Result, error) {
	var resp deepgramResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errorf(ProviderDeepgram, "malformed response: %w", err)
	}

	if len(resp.Results.Channels) == 0 ||
		len(resp.Results.Channels[0].Alternatives) == 0 {
		return nil, errorf(ProviderDeepgram, "response contains no transcript")
	}

	channel := resp.Results.Channels[0]
	alternative := channel.Alternatives[0]

	language := opts.Language
	if channel.DetectedLanguage != "" {
		language = channel.DetectedLanguage
	}
	if language == "" || language == "auto" {
		language = "en"
	}

	segments := make([]transcript.Segment, 0, len(resp.Results.Utterances))
	for _, utt := range resp.Results.Utterances {
		seg := transcript.Segment{
			StartTime:  time.Duration(utt.Start * float64(time.Second)),
			EndTime:    time.Duration(utt.End * float64(time.Second)),
			Text:       utt.Transcript,
			Confidence: utt.Confidence,
		}
		if opts.Diarization {
			seg.Speaker = fmt.Sprintf("speaker_%d", utt.Speaker)
		}
		segments = append(segments, seg)
	}

	duration := time.Duration(resp.Metadata.Duration * float64(time.Second))

	// no utterances: fall back to one segment spanning the whole file
	if len(segments) == 0 && strings.TrimSpace(alternative.Transcript) != "" {
		end := duration
		if end <= 0 {
			end = time.Second
		}
		segments = append(segments, transcript.Segment{
			StartTime:  0,
			EndTime:    end,
			Text:       alternative.Transcript,
			Confidence: alternative.Confidence,
		})
	}

	if len(segments) == 0 && strings.TrimSpace(alternative.Transcript) == "" {
		// silent audio is a valid outcome, not an error
		return &transcript.Result{
			Language: language,
			Duration: duration,
		}, nil
	}

	var raw map[string]any
	_ = json.Unmarshal(body, &raw)

	return finalize(&transcript.Result{
		Text:        strings.TrimSpace(alternative.Transcript),
		Language:    language,
		Segments:    segments,
		Duration:    duration,
		RawResponse: raw,
	}), nil
}

// deepgramModel maps quality presets to Deepgram model tiers.
func deepgramModel(quality transcript.Quality) string {
	switch quality {
	case transcript.QualityFast:
		return "base"
	case transcript.QualityBestQuality:
		return "nova-3"
	default:
		return "nova-2"
	}
}

func mediaContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
