package source

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// kind of input a job points at
type Kind string

const (
	KindFile Kind = "file"
	KindURL  Kind = "url"
)

// resolved job input
type Source struct {
	Kind Kind
	Path string // local file path when Kind == KindFile
	URL  string // remote address when Kind == KindURL
}

func (s Source) String() string {
	if s.Kind == KindURL {
		return s.URL
	}
	return s.Path
}

// ResolutionError reports an input that cannot be turned into a usable source.
type ResolutionError struct {
	Source string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve source %q: %s", e.Source, e.Reason)
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".aac":  true,
	".wma":  true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".flv":  true,
	".m4v":  true,
}

// Resolve classifies raw input as a local media file or a well-formed URL.
func Resolve(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, &ResolutionError{Source: raw, Reason: "empty source"}
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" {
			return Source{}, &ResolutionError{
				Source: raw,
				Reason: "malformed URL",
			}
		}
		return Source{Kind: KindURL, URL: raw}, nil
	}

	info, err := os.Stat(raw)
	if os.IsNotExist(err) {
		return Source{}, &ResolutionError{Source: raw, Reason: "file not found"}
	}
	if err != nil {
		return Source{}, &ResolutionError{Source: raw, Reason: err.Error()}
	}
	if info.IsDir() {
		return Source{}, &ResolutionError{Source: raw, Reason: "is a directory"}
	}

	ext := strings.ToLower(filepath.Ext(raw))
	if !audioExtensions[ext] && !videoExtensions[ext] {
		return Source{}, &ResolutionError{
			Source: raw,
			Reason: fmt.Sprintf("unsupported media type %q", ext),
		}
	}

	return Source{Kind: KindFile, Path: raw}, nil
}

// IsVideo reports whether a local source needs audio extraction first.
func (s Source) IsVideo() bool {
	if s.Kind != KindFile {
		return false
	}
	return videoExtensions[strings.ToLower(filepath.Ext(s.Path))]
}

var (
	unsafeChars    = regexp.MustCompile(`[^\w\-. ]`)
	multipleDots   = regexp.MustCompile(`\.{2,}`)
	multipleSpaces = regexp.MustCompile(` {2,}`)
	youtubeWatch   = regexp.MustCompile(`[?&]v=([\w-]{6,})`)
)

const maxStemLength = 200

// SanitizeFilename strips characters unsafe for the host filesystem.
func SanitizeFilename(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "-")
	safe = multipleDots.ReplaceAllString(safe, ".")
	safe = multipleSpaces.ReplaceAllString(safe, " ")
	safe = strings.Trim(safe, " .")

	if len(safe) > maxStemLength {
		safe = safe[:maxStemLength]
		if idx := strings.LastIndex(safe, " "); idx > 0 {
			safe = safe[:idx]
		}
		safe = strings.TrimRight(safe, ".")
	}

	if safe == "" {
		return "transcript"
	}
	return safe
}

// Stem derives a safe output base name from the source. YouTube URLs
// collapse to the video id; other URLs use the last path element.
func (s Source) Stem() string {
	if s.Kind == KindFile {
		base := filepath.Base(s.Path)
		return SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return SanitizeFilename(stemFromURL(s.URL))
}

func stemFromURL(raw string) string {
	if strings.Contains(raw, "youtu.be/") {
		id := strings.SplitN(raw[strings.Index(raw, "youtu.be/")+len("youtu.be/"):], "?", 2)[0]
		id = strings.Trim(id, "/")
		if id != "" {
			return id
		}
		return "youtube-video"
	}
	if strings.Contains(raw, "youtube.com") {
		if m := youtubeWatch.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
		return "youtube-video"
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "recording"
	}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		parts := strings.Split(path, "/")
		last := parts[len(parts)-1]
		return strings.TrimSuffix(last, filepath.Ext(last))
	}
	if host := strings.TrimPrefix(parsed.Host, "www."); host != "" {
		return host
	}
	return "recording"
}

// OutputPath builds `<stem>_<language>.<ext>` under dir.
func (s Source) OutputPath(dir, language, extension string) string {
	name := fmt.Sprintf("%s_%s%s", s.Stem(), language, extension)
	return filepath.Join(dir, name)
}
