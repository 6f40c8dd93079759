package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// settings for the audio track handed to transcription providers
type AudioOptions struct {
	SampleRate int
	Channels   int
	Bitrate    string
}

// 16 kHz mono keeps uploads small without hurting speech models
func DefaultAudioOptions() AudioOptions {
	return AudioOptions{
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// ExtractAudio pulls the audio track out of a video file into an mp3.
func ExtractAudio(
	ctx context.Context,
	inputPath, outputPath string,
	opts AudioOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn":     "",
		"acodec": "libmp3lame",
		"ar":     opts.SampleRate,
		"ac":     opts.Channels,
		"b:a":    opts.Bitrate,
	}

	err := ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	return nil
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration probes a media file's length.
func Duration(path string) (time.Duration, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", path)
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeFormat
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
