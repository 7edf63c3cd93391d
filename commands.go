package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tasklog/pkg/config"
	"github.com/harrisonrobin/tasklog/pkg/dispatch"
	"github.com/harrisonrobin/tasklog/pkg/google"
	"github.com/harrisonrobin/tasklog/pkg/model"
	"github.com/harrisonrobin/tasklog/pkg/server"
	"github.com/harrisonrobin/tasklog/pkg/slack"
	"github.com/harrisonrobin/tasklog/pkg/tasklog"
	"github.com/harrisonrobin/tasklog/pkg/util"
)

// loadConfig applies the --sheet flag on top of config.Load.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sheetName != "" {
		cfg.SheetName = sheetName
	}
	return cfg, nil
}

func newSheetsClient(cfg *config.Config, logger *slog.Logger) *google.SheetsClient {
	return google.NewSheetsClient(google.SheetsConfig{
		SheetID:         cfg.SheetID,
		SheetName:       cfg.SheetName,
		CredentialsJSON: cfg.CredentialsJSON,
	}, logger)
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task submission and listing endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}

			loc := time.Local
			if cfg.Timezone != "" {
				if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
					return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
				}
			}

			if missing := cfg.Missing(); len(missing) > 0 {
				// Requests still get the generic error responses until this is fixed.
				logger.Warn("configuration incomplete", "missing", strings.Join(missing, ","))
			}

			notifier := slack.NewNotifier(slack.NotifierConfig{
				BotToken:  cfg.SlackBotToken,
				ChannelID: cfg.SlackChannelID,
				Location:  loc,
			}, logger)
			jobs := dispatch.New(dispatch.DefaultConfig(), logger)
			svc := tasklog.NewService(newSheetsClient(cfg, logger), notifier, jobs, logger, nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serveErr := server.New(svc, logger).ListenAndServe(ctx, cfg.ListenAddr)

			drainCtx, cancel := context.WithTimeout(context.Background(), dispatch.DefaultConfig().JobTimeout)
			defer cancel()
			if err := jobs.Close(drainCtx); err != nil {
				logger.Error("dispatcher close error", "error", err)
			}
			logger.Info("server stopped")
			return serveErr
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides "+config.EnvListenAddr+")")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tasks logged in the sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc := tasklog.NewService(newSheetsClient(cfg, logger), nil, nil, logger, nil)
			tasks := svc.List(cmd.Context())
			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}
			for _, t := range tasks {
				printTask(t)
			}
			return nil
		},
	}
}

func printTask(t model.DisplayTask) {
	id := color.New(color.FgCyan).Sprintf("#%d", t.ID)
	when := t.TaskDate
	if t.StartTime != "" || t.EndTime != "" {
		when = fmt.Sprintf("%s %s-%s", t.TaskDate, t.StartTime, t.EndTime)
	}
	fmt.Printf("%s  %s  %s  %s\n", id, when, statusColor(t.TaskStatus).Sprint(t.TaskStatus), t.TaskType)
	fmt.Printf("    %s\n", t.TaskDescription)
	if t.Project != "" {
		fmt.Printf("    project: %s\n", t.Project)
	}
	if t.TaskComments != "" {
		fmt.Printf("    %s\n", color.New(color.Faint).Sprint(t.TaskComments))
	}
}

func statusColor(status string) *color.Color {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done", "completed":
		return color.New(color.FgGreen)
	case "blocked":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check configuration and Google credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ok := color.New(color.FgGreen).Sprint("OK")
			failed := false

			missing := cfg.Missing()
			for _, key := range missing {
				fmt.Printf("  %s %s\n", color.New(color.FgRed).Sprint("MISSING"), key)
			}
			if len(missing) == 0 {
				fmt.Printf("  environment: %s\n", ok)
			} else {
				failed = true
			}

			if err := newSheetsClient(cfg, logger).Check(cmd.Context()); err != nil {
				fmt.Printf("  google sheets: %s (%v)\n", color.New(color.FgRed).Sprint("FAILED"), err)
				failed = true
			} else {
				fmt.Printf("  google sheets: %s\n", ok)
			}

			fmt.Println()
			fmt.Println("Expected header row 1:")
			fmt.Printf("  %s\n", strings.Join(util.SheetHeaders, " | "))

			if failed {
				return errors.New("configuration check failed")
			}
			return nil
		},
	}
}

func setSheetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-sheet <name>",
		Short: "Set the default sheet tab name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Keep the other persisted settings.
			cfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			cfg.SheetName = args[0]
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Printf("Default sheet set to: %s\n", args[0])
			return nil
		},
	}
}
