package transcript

import (
	"testing"
	"time"
)

func TestSegmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		segment Segment
		wantErr bool
	}{
		{
			name:    "valid segment",
			segment: Segment{StartTime: 0, EndTime: time.Second, Text: "hello"},
		},
		{
			name: "valid with confidence",
			segment: Segment{
				StartTime:  time.Second,
				EndTime:    2 * time.Second,
				Text:       "hello",
				Confidence: 0.95,
			},
		},
		{
			name:    "negative start",
			segment: Segment{StartTime: -time.Second, EndTime: time.Second, Text: "x"},
			wantErr: true,
		},
		{
			name:    "end equals start",
			segment: Segment{StartTime: time.Second, EndTime: time.Second, Text: "x"},
			wantErr: true,
		},
		{
			name:    "inverted timestamps",
			segment: Segment{StartTime: 2 * time.Second, EndTime: time.Second, Text: "x"},
			wantErr: true,
		},
		{
			name: "confidence above one",
			segment: Segment{
				StartTime:  0,
				EndTime:    time.Second,
				Text:       "x",
				Confidence: 1.5,
			},
			wantErr: true,
		},
		{
			name: "confidence below zero",
			segment: Segment{
				StartTime:  0,
				EndTime:    time.Second,
				Text:       "x",
				Confidence: -0.1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.segment.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		wantErr bool
	}{
		{
			name:   "empty result",
			result: Result{},
		},
		{
			name: "ordered segments",
			result: Result{
				Segments: []Segment{
					{StartTime: 0, EndTime: time.Second, Text: "a"},
					{StartTime: time.Second, EndTime: 2 * time.Second, Text: "b"},
				},
				Duration: 2 * time.Second,
			},
		},
		{
			name: "overlapping segments",
			result: Result{
				Segments: []Segment{
					{StartTime: 0, EndTime: 2 * time.Second, Text: "a"},
					{StartTime: time.Second, EndTime: 3 * time.Second, Text: "b"},
				},
				Duration: 3 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "duration shorter than last end",
			result: Result{
				Segments: []Segment{
					{StartTime: 0, EndTime: 5 * time.Second, Text: "a"},
				},
				Duration: time.Second,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsFormats(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"deduplicates", []string{"txt", "srt", "txt"}, []string{"txt", "srt"}},
		{"normalizes case", []string{"TXT", "Srt"}, []string{"txt", "srt"}},
		{"drops empties", []string{"", "json", "  "}, []string{"json"}},
		{"preserves order", []string{"vtt", "md", "txt"}, []string{"vtt", "md", "txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{OutputFormats: tt.input}
			got := opts.Formats()
			if len(got) != len(tt.want) {
				t.Fatalf("Formats() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Formats()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResultPlainText(t *testing.T) {
	result := Result{
		Text: "full text fallback",
		Segments: []Segment{
			{StartTime: 0, EndTime: time.Second, Text: " Hello. "},
			{StartTime: time.Second, EndTime: 2 * time.Second, Text: "World."},
		},
	}

	if got := result.PlainText(); got != "Hello. World." {
		t.Errorf("PlainText() = %q", got)
	}

	empty := Result{Text: "only text"}
	if got := empty.PlainText(); got != "only text" {
		t.Errorf("PlainText() fallback = %q", got)
	}
}
