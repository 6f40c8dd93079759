package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/likhit/internal/config"
	"github.com/mgpai22/likhit/internal/format"
	"github.com/mgpai22/likhit/internal/transcript"
	"github.com/mgpai22/likhit/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [transcript.json]",
	Short: "Translate a JSON transcript and re-render the selected formats",
	Long: `Translate re-ingests a transcript previously written with the json
output format, translates every segment with Anthropic Claude, and writes
the requested formats next to the input.

Examples:
  likhit translate ./transcriptions/video_en.json --to spanish
  likhit translate talk_en.json --to french -f srt -f vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("to", "t", "", "Target language (required)")
	translateCmd.Flags().
		String("model", "", "Claude model to use")
	translateCmd.Flags().
		StringArrayP("output-format", "f", []string{"json"}, "Output format for the translated transcript (repeatable)")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Segments per API request")

	_ = translateCmd.MarkFlagRequired("to")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	target, _ := cmd.Flags().GetString("to")
	model, _ := cmd.Flags().GetString("model")
	outputFormats, _ := cmd.Flags().GetStringArray("output-format")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	result, err := format.ParseJSON(data)
	if err != nil {
		return err
	}
	if len(result.Segments) == 0 {
		return fmt.Errorf("transcript %s has no segments to translate", inputPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.AnthropicAPIKey == "" {
		return &config.ConfigError{
			Reason: "translate requires ANTHROPIC_API_KEY",
		}
	}

	translator, err := translate.NewAnthropicTranslator(cfg.AnthropicAPIKey, translate.Options{
		SourceLanguage: result.Language,
		TargetLanguage: target,
		Model:          model,
		BatchSize:      batchSize,
	})
	if err != nil {
		return err
	}

	logger.Infow("Translating transcript",
		"input", inputPath,
		"segments", len(result.Segments),
		"target", target,
	)

	translated, err := translate.Result(cmd.Context(), translator, result, target)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	stem := translationStem(inputPath, result.Language)
	dir := filepath.Dir(inputPath)

	renderOpts := transcript.DefaultOptions()
	renderOpts.Source = inputPath
	renderOpts.Language = target
	renderOpts.OutputFormats = outputFormats

	for _, raw := range outputFormats {
		id := format.Format(strings.ToLower(strings.TrimSpace(raw)))
		renderer, err := format.NewRenderer(id)
		if err != nil {
			return err
		}

		rendered, err := renderer.Render(translated, renderOpts)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, target, format.ExtensionForFormat(id)))
		if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write %s output: %w", id, err)
		}

		abs, _ := filepath.Abs(path)
		fmt.Printf("  ✓ %s\n", abs)
	}

	return nil
}

// translationStem strips the extension and any trailing `_<language>` the
// transcribe command appended.
func translationStem(inputPath, language string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if language != "" {
		stem = strings.TrimSuffix(stem, "_"+language)
	}
	if stem == "" {
		return "transcript"
	}
	return stem
}
