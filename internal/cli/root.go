// Package cli wires the leaf commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkechoes/leaf/internal/config"
	"github.com/inkechoes/leaf/internal/logger"
)

// version is injected at build time.
var version = "dev"

var (
	flagAPI     string
	flagToken   string
	flagLogFile string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "leaf",
	Short: "Read Ink&Echoes books in the terminal",
	Long: `leaf is a terminal reading client for the Ink&Echoes platform.

It opens published works in a paginated book view, follows chapters,
and keeps bookmarks and reading progress in sync with your account.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "platform API base URL")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token for authenticated requests")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion records the build version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration with flags taking precedence over
// environment variables and the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagAPI != "" {
		cfg.BaseURL = flagAPI
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	return cfg, cfg.Validate()
}

// setupLogging applies the logging configuration. The returned func
// closes the log file, if one was opened.
func setupLogging(cfg config.Config) (func(), error) {
	logger.SetVerbose(flagVerbose)
	if cfg.LogFile == "" {
		return func() {}, nil
	}
	if err := logger.SetFile(cfg.LogFile); err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { logger.Close() }, nil
}
