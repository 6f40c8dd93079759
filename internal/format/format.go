package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mgpai22/likhit/internal/transcript"
)

// supported output format identifiers
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatSRT      Format = "srt"
	FormatVTT      Format = "vtt"
	FormatJSON     Format = "json"
)

// interface for rendering a transcription result into file-ready text
type Renderer interface {
	Render(result *transcript.Result, opts transcript.Options) (string, error)
}

// FormatError reports malformed segment data handed to a renderer.
type FormatError struct {
	Format Format
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %s: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// column width used for soft-wrapping subtitle cue text
const maxLineWidth = 42

type rendererConstructor func() Renderer

var registry = map[Format]rendererConstructor{
	FormatText:     func() Renderer { return &TextRenderer{} },
	FormatMarkdown: func() Renderer { return &MarkdownRenderer{} },
	FormatSRT:      func() Renderer { return &SRTRenderer{} },
	FormatVTT:      func() Renderer { return &VTTRenderer{} },
	FormatJSON:     func() Renderer { return &JSONRenderer{} },
}

// Register adds or replaces a renderer constructor for a format identifier.
func Register(format Format, constructor func() Renderer) {
	registry[format] = constructor
}

func NewRenderer(format Format) (Renderer, error) {
	constructor, ok := registry[Format(strings.ToLower(string(format)))]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return constructor(), nil
}

// Supported returns the registered format identifiers in stable order.
func Supported() []string {
	formats := []string{}
	for _, f := range []Format{
		FormatText,
		FormatMarkdown,
		FormatSRT,
		FormatVTT,
		FormatJSON,
	} {
		if _, ok := registry[f]; ok {
			formats = append(formats, string(f))
		}
	}
	return formats
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	return "." + string(format)
}

// checkSegments rejects results whose segments a renderer cannot emit.
func checkSegments(format Format, result *transcript.Result) error {
	for i, seg := range result.Segments {
		if err := seg.Validate(); err != nil {
			return &FormatError{
				Format: format,
				Err:    fmt.Errorf("segment %d: %w", i, err),
			}
		}
	}
	return nil
}

// timestamps: 00:00:12,500
func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// timestamps: 00:00:12.500
func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// wrapText soft-wraps cue text at word boundaries.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)

	return strings.Join(lines, "\n")
}
