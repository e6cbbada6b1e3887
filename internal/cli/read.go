package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inkechoes/leaf/internal/api"
	"github.com/inkechoes/leaf/internal/logger"
	"github.com/inkechoes/leaf/internal/tui"
)

var readCmd = &cobra.Command{
	Use:   "read <work-id>",
	Short: "Open a published work in the book reader",
	Long: `Opens a work in the paginated book reader.

Controls:
  ←/→      - Turn pages (and cross chapter boundaries)
  t        - Table of contents
  b        - Bookmark the current page
  s        - Reading settings
  ctrl+f   - Fullscreen
  esc      - Close overlay / leave fullscreen
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	workID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid work id %q", args[0])
	}

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
	work, err := client.GetWork(context.Background(), workID)
	if err != nil {
		return fmt.Errorf("load work %d: %w", workID, err)
	}

	logger.Info("opening %q (work %d)", work.Title, work.ID)

	p := tea.NewProgram(tui.New(client, work, cfg.FontSize), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reader exited: %w", err)
	}
	return nil
}
