package transcript

import (
	"fmt"
	"strings"
	"time"
)

// quality/speed preset for transcription
type Quality string

const (
	QualityFast        Quality = "fast"
	QualityBalanced    Quality = "balanced"
	QualityBestQuality Quality = "best_quality"
)

// timestamp granularity requested from a provider
type TimestampLevel string

const (
	TimestampsNone      TimestampLevel = "none"
	TimestampsUtterance TimestampLevel = "utterance"
	TimestampsWord      TimestampLevel = "word"
)

// options for a single transcription job, constructed once and never mutated
type Options struct {
	Source        string `validate:"nonzero"`
	Language      string `validate:"nonzero"`
	Quality       Quality
	Diarization   bool
	SmartFormat   bool
	Timestamps    TimestampLevel
	OutputFormats []string `validate:"min=1"`
}

func DefaultOptions() Options {
	return Options{
		Language:      "auto",
		Quality:       QualityBalanced,
		SmartFormat:   true,
		Timestamps:    TimestampsUtterance,
		OutputFormats: []string{"txt", "srt"},
	}
}

// Formats returns the requested output formats with duplicates removed,
// preserving first-occurrence order.
func (o Options) Formats() []string {
	seen := make(map[string]bool, len(o.OutputFormats))
	formats := make([]string, 0, len(o.OutputFormats))
	for _, f := range o.OutputFormats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats
}

// single timestamped span of transcript text, immutable once produced
type Segment struct {
	StartTime  time.Duration
	EndTime    time.Duration
	Text       string
	Speaker    string  // empty unless diarization labeled the span
	Confidence float64 // 0 when the provider reports none
}

// Validate reports malformed timing or confidence.
func (s Segment) Validate() error {
	if s.StartTime < 0 {
		return fmt.Errorf("negative start time %v", s.StartTime)
	}
	if s.EndTime <= s.StartTime {
		return fmt.Errorf(
			"end time %v is not after start time %v",
			s.EndTime,
			s.StartTime,
		)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", s.Confidence)
	}
	return nil
}

// outcome of one provider call, consumed read-only by formatters
type Result struct {
	Text        string
	Language    string
	Segments    []Segment
	Duration    time.Duration
	RawResponse map[string]any // opaque provider payload for debugging
}

// Validate checks segment ordering and the duration bound.
func (r *Result) Validate() error {
	var prevEnd time.Duration
	for i, seg := range r.Segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if seg.StartTime < prevEnd {
			return fmt.Errorf(
				"segment %d starts at %v before previous end %v",
				i,
				seg.StartTime,
				prevEnd,
			)
		}
		prevEnd = seg.EndTime
	}
	if r.Duration < prevEnd {
		return fmt.Errorf(
			"duration %v shorter than last segment end %v",
			r.Duration,
			prevEnd,
		)
	}
	return nil
}

// PlainText joins segment texts, falling back to the full transcript when
// the provider returned no segments.
func (r *Result) PlainText() string {
	if len(r.Segments) == 0 {
		return r.Text
	}
	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		text := strings.TrimSpace(seg.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
