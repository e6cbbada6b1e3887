package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkechoes/leaf/internal/api"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your reading statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := api.New(cfg.BaseURL, cfg.Token)
	stats, err := client.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("load reading stats: %w", err)
	}

	cmd.Printf("Books read:      %d\n", stats.TotalBooksRead)
	cmd.Printf("Pages read:      %d\n", stats.TotalPagesRead)
	cmd.Printf("Time reading:    %s\n", formatMinutes(stats.TotalReadingTimeMinutes))
	cmd.Printf("Avg. completion: %.1f%%\n", stats.AverageCompletion)
	return nil
}

func formatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}
