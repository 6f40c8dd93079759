package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/likhit/internal/config"
	"github.com/mgpai22/likhit/internal/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats, languages and quality presets",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	fmt.Println("Output formats:")
	for _, id := range format.Supported() {
		fmt.Printf("  %-5s (%s)\n", id, format.ExtensionForFormat(format.Format(id)))
	}

	fmt.Printf("\nLanguages: %s\n", strings.Join(config.Languages, ", "))
	fmt.Println("Quality presets: fast, balanced, best_quality")
	fmt.Println("Providers: mock, whisper, deepgram, gemini")

	return nil
}
