package cli

import (
	"github.com/mgpai22/likhit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "likhit",
	Short: "Queue-based audio and video transcription utility",
	Long: `Likhit queues transcription jobs for YouTube URLs, remote streams and
local media files, delegates speech-to-text to a pluggable provider, and
renders the results as txt, md, srt, vtt or json.

Provider selection and credentials come from the environment
(TRANSCRIBER_PROVIDER, DEEPGRAM_API_KEY, OPENAI_API_KEY, ...); a .env file
in the working directory is honored.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
