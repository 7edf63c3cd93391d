package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logFormat string
	logLevel  string
	sheetName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tasklog",
		Short: "Log daily tasks to a Google Sheet and announce them on Slack",
		Long: `tasklog serves a task submission form endpoint. Each accepted submission is
appended as a row to a Google Sheet and announced in a Slack channel.

Credentials are read from the environment (or a .env file in the working
directory); non-secret defaults can be stored with 'tasklog set-sheet'.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "sheet tab name (overrides config)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(setSheetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", logFormat)
	}
}
