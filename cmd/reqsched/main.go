package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/t77yq/reqsched/internal/config"
	"github.com/t77yq/reqsched/internal/handler"
	"github.com/t77yq/reqsched/internal/logging"
	"github.com/t77yq/reqsched/internal/scheduler"
	"github.com/t77yq/reqsched/internal/storage"
)

var (
	urlFlag    string
	configPath string
	debug      bool
)

func main() {
	app := cli.App{
		Name:      "reqsched",
		HelpName:  "reqsched",
		Usage:     "makes a GET request at each time in a given list",
		UsageText: "reqsched [options] <timestamps>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:        "url, u",
				Usage:       "request URL",
				Destination: &urlFlag,
			},
			cli.StringFlag{
				Name:        "config, c",
				Usage:       "path to a YAML config file",
				Destination: &configPath,
			},
			cli.BoolFlag{
				Name:        "debug, d",
				Usage:       "enable debug logging",
				Destination: &debug,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "reqsched: %s\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowAppHelp(c)
		return fmt.Errorf("expected a single comma-separated list of HH:MM:SS timestamps")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if urlFlag != "" {
		cfg.URL = urlFlag
	}
	if debug {
		cfg.Debug = true
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Build the full schedule before anything touches the network. A single
	// malformed timestamp fails the whole run.
	tokens := strings.Split(c.Args().First(), ",")
	schedule, err := scheduler.BuildSchedule(tokens, cfg.URL, time.Now())
	if err != nil {
		logger.Error("Failed to build schedule", zap.Error(err))
		return err
	}

	logger.Info("Schedule built",
		zap.Int("tasks", len(schedule.Tasks)),
		zap.String("url", cfg.URL))

	history, err := storage.NewSQLiteRequestHistory(logger, cfg.HistoryPath)
	if err != nil {
		logger.Error("Failed to open request history", zap.Error(err))
		return err
	}
	defer history.Close()

	if cfg.HistoryRetention > 0 {
		cutoff := time.Now().Add(-cfg.HistoryRetention)
		if err := history.DeleteBefore(context.Background(), cutoff); err != nil {
			logger.Warn("Failed to prune request history", zap.Error(err))
		}
	}

	// Setup signal handling so Ctrl-C stops pending waits cleanly
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	requester := handler.NewHTTPRequestHandler(logger, cfg.RequestTimeout, cfg.UserAgent)
	dispatcher, err := scheduler.NewDispatcher(requester, history, logger)
	if err != nil {
		return err
	}

	// Request failures are reported per task inside the dispatcher; the
	// process still exits 0 once every task has completed.
	summary, err := dispatcher.Run(ctx, schedule)
	if err != nil {
		return err
	}

	logger.Info("All tasks finished",
		zap.Int("scheduled", summary.Scheduled),
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Int("canceled", summary.Canceled))

	return nil
}
