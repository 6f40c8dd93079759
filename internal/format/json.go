package format

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mgpai22/likhit/internal/transcript"
)

// wire shape of the JSON output, kept stable for re-ingestion
type jsonDocument struct {
	Metadata    jsonMetadata   `json:"metadata"`
	Transcript  string         `json:"transcript"`
	Segments    []jsonSegment  `json:"segments"`
	RawResponse map[string]any `json:"raw_api_response,omitempty"`
}

type jsonMetadata struct {
	Language     string `json:"language"`
	Duration     float64 `json:"duration"`
	SegmentCount int    `json:"segment_count"`
	Quality      string `json:"quality,omitempty"`
	Diarization  bool   `json:"diarization"`
	SmartFormat  bool   `json:"smart_format"`
	Timestamps   string `json:"timestamps,omitempty"`
}

type jsonSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// structured dump of the result plus the options that shaped it
type JSONRenderer struct{}

func (r *JSONRenderer) Render(
	result *transcript.Result,
	opts transcript.Options,
) (string, error) {
	if err := checkSegments(FormatJSON, result); err != nil {
		return "", err
	}

	doc := jsonDocument{
		Metadata: jsonMetadata{
			Language:     result.Language,
			Duration:     result.Duration.Seconds(),
			SegmentCount: len(result.Segments),
			Quality:      string(opts.Quality),
			Diarization:  opts.Diarization,
			SmartFormat:  opts.SmartFormat,
			Timestamps:   string(opts.Timestamps),
		},
		Transcript:  result.Text,
		Segments:    make([]jsonSegment, 0, len(result.Segments)),
		RawResponse: result.RawResponse,
	}

	for _, seg := range result.Segments {
		doc.Segments = append(doc.Segments, jsonSegment{
			Start:      seg.StartTime.Seconds(),
			End:        seg.EndTime.Seconds(),
			Text:       seg.Text,
			Speaker:    seg.Speaker,
			Confidence: seg.Confidence,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &FormatError{Format: FormatJSON, Err: err}
	}

	return string(data) + "\n", nil
}

// ParseJSON re-ingests a transcript previously rendered by JSONRenderer.
func ParseJSON(data []byte) (*transcript.Result, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse transcript JSON: %w", err)
	}

	result := &transcript.Result{
		Text:        doc.Transcript,
		Language:    doc.Metadata.Language,
		Duration:    time.Duration(doc.Metadata.Duration * float64(time.Second)),
		Segments:    make([]transcript.Segment, 0, len(doc.Segments)),
		RawResponse: doc.RawResponse,
	}

	for _, seg := range doc.Segments {
		result.Segments = append(result.Segments, transcript.Segment{
			StartTime:  time.Duration(seg.Start * float64(time.Second)),
			EndTime:    time.Duration(seg.End * float64(time.Second)),
			Text:       seg.Text,
			Speaker:    seg.Speaker,
			Confidence: seg.Confidence,
		})
	}

	return result, nil
}
