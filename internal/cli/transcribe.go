package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/likhit/internal/config"
	"github.com/mgpai22/likhit/internal/jobs"
	"github.com/mgpai22/likhit/internal/transcribe"
	"github.com/mgpai22/likhit/internal/transcript"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe audio/video sources and write the selected formats",
	Long: `Transcribe one or more sources. Sources are processed strictly in
submission order; a failed job is reported and the queue moves on.

Examples:
  likhit transcribe --url "https://youtu.be/dQw4w9WgXcQ" -f txt -f srt
  likhit transcribe --file ./audio.mp3 --language en --quality best_quality
  likhit transcribe --file a.mp3 --file b.wav --out-dir ./transcripts`,
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		StringArray("url", nil, "URL to transcribe (repeatable)")
	transcribeCmd.Flags().
		StringArray("file", nil, "Local file to transcribe (repeatable)")
	transcribeCmd.Flags().
		StringP("language", "l", "auto", "Language code (auto, en, fr, ...)")
	transcribeCmd.Flags().
		StringP("quality", "q", "balanced", "Quality preset (fast, balanced, best_quality)")
	transcribeCmd.Flags().
		StringArrayP("output-format", "f", []string{"txt", "srt"}, "Output format (txt, md, srt, vtt, json; repeatable)")
	transcribeCmd.Flags().
		StringP("out-dir", "o", "", "Output directory (default: TRANSCRIBER_OUTPUT_DIR or ./transcriptions)")
	transcribeCmd.Flags().
		Bool("diarization", false, "Enable speaker diarization")
	transcribeCmd.Flags().
		Bool("smart-format", true, "Apply provider-side punctuation and formatting")
	transcribeCmd.Flags().
		String("timestamps", "utterance", "Timestamp granularity (none, utterance, word)")
	transcribeCmd.Flags().
		String("provider", "", "Transcription provider (default: TRANSCRIBER_PROVIDER or mock)")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	urls, _ := cmd.Flags().GetStringArray("url")
	files, _ := cmd.Flags().GetStringArray("file")
	language, _ := cmd.Flags().GetString("language")
	qualityStr, _ := cmd.Flags().GetString("quality")
	outputFormats, _ := cmd.Flags().GetStringArray("output-format")
	outDir, _ := cmd.Flags().GetString("out-dir")
	diarization, _ := cmd.Flags().GetBool("diarization")
	smartFormat, _ := cmd.Flags().GetBool("smart-format")
	timestampsStr, _ := cmd.Flags().GetString("timestamps")
	providerFlag, _ := cmd.Flags().GetString("provider")

	if len(urls) == 0 && len(files) == 0 {
		return fmt.Errorf("provide at least one --url or --file")
	}

	if !config.IsSupportedLanguage(language) {
		return fmt.Errorf(
			"unsupported language %q (supported: %s)",
			language,
			strings.Join(config.Languages, ", "),
		)
	}

	quality, err := parseQuality(qualityStr)
	if err != nil {
		return err
	}
	timestamps, err := parseTimestamps(timestampsStr)
	if err != nil {
		return err
	}

	// configuration errors are fatal: no job can run without a provider
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	providerName := cfg.Provider
	if providerFlag != "" {
		providerName = providerFlag
	}
	apiKey, err := cfg.APIKey(providerName)
	if err != nil {
		return err
	}

	if outDir == "" {
		outDir = cfg.OutputDir
	}

	ctx := cmd.Context()

	transcriber, err := transcribe.Factory(ctx, transcribe.Provider(providerName), apiKey)
	if err != nil {
		return err
	}

	history := openHistory(cfg, outDir, providerName)
	if history != nil {
		defer history.Close()
	}

	runner := jobs.NewRunner(transcriber, outDir, logger, history)
	runner.PrepareAudio = true

	opts := transcript.Options{
		Language:      language,
		Quality:       quality,
		Diarization:   diarization,
		SmartFormat:   smartFormat,
		Timestamps:    timestamps,
		OutputFormats: outputFormats,
	}

	enqueued := 0
	for _, raw := range append(urls, files...) {
		if _, err := runner.Enqueue(raw, opts); err != nil {
			fmt.Printf("Warning: skipping %s: %v\n", raw, err)
			continue
		}
		enqueued++
	}
	if enqueued == 0 {
		return fmt.Errorf("no valid inputs provided")
	}

	logger.Infow("Starting transcription",
		"jobs", enqueued,
		"provider", providerName,
		"output_dir", outDir,
	)

	summary := runner.Run(ctx)

	fmt.Println()
	for _, job := range runner.Jobs() {
		switch job.Status {
		case jobs.StatusDone:
			fmt.Printf("  ✓ %s\n", job.Source)
			for _, id := range job.Options.Formats() {
				if path, ok := job.OutputPaths[id]; ok {
					abs, _ := filepath.Abs(path)
					fmt.Printf("      %s\n", abs)
				}
			}
		case jobs.StatusFailed:
			fmt.Printf("  ✗ %s: %s\n", job.Source, job.Error)
		}
	}
	fmt.Printf("\nSummary: %d completed, %d failed\n", summary.Done, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d job(s) failed", summary.Failed)
	}
	return nil
}

func parseQuality(s string) (transcript.Quality, error) {
	switch transcript.Quality(strings.ToLower(s)) {
	case transcript.QualityFast:
		return transcript.QualityFast, nil
	case transcript.QualityBalanced:
		return transcript.QualityBalanced, nil
	case transcript.QualityBestQuality:
		return transcript.QualityBestQuality, nil
	default:
		return "", fmt.Errorf("unsupported quality %q: use fast, balanced, or best_quality", s)
	}
}

func parseTimestamps(s string) (transcript.TimestampLevel, error) {
	switch transcript.TimestampLevel(strings.ToLower(s)) {
	case transcript.TimestampsNone:
		return transcript.TimestampsNone, nil
	case transcript.TimestampsUtterance:
		return transcript.TimestampsUtterance, nil
	case transcript.TimestampsWord:
		return transcript.TimestampsWord, nil
	default:
		return "", fmt.Errorf("unsupported timestamps %q: use none, utterance, or word", s)
	}
}

func openHistory(cfg *config.Config, outDir, provider string) *jobs.History {
	path := cfg.HistoryDB
	if path == "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			logger.Warnw("Job history disabled", "error", err)
			return nil
		}
		path = filepath.Join(outDir, "history.db")
	}

	history, err := jobs.NewHistory(path, provider)
	if err != nil {
		logger.Warnw("Job history disabled",
			"path", path,
			"error", err,
		)
		return nil
	}
	return history
}
