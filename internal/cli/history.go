package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/likhit/internal/config"
	"github.com/mgpai22/likhit/internal/jobs"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transcription job outcomes",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.HistoryDB
	if path == "" {
		path = filepath.Join(cfg.OutputDir, "history.db")
	}

	history, err := jobs.NewHistory(path, cfg.Provider)
	if err != nil {
		return fmt.Errorf("no job history at %s: %w", path, err)
	}
	defer history.Close()

	entries, err := history.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No recorded jobs.")
		return nil
	}

	for _, entry := range entries {
		line := fmt.Sprintf(
			"%s  %-6s  %-8s  %s (%.1fs)",
			entry.CompletedAt.Format("2006-01-02 15:04:05"),
			entry.Status,
			entry.Provider,
			entry.Source,
			entry.Duration.Seconds(),
		)
		if entry.Error != "" {
			line += "  " + entry.Error
		}
		fmt.Println(line)
	}

	return nil
}
