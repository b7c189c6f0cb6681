package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"roster/internal/console"
	"roster/internal/platform/logger"
	"roster/internal/records"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Manage records from an interactive menu",
	RunE:  runConsole,
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Discard()
	if verbose {
		log = logger.New(cmd.ErrOrStderr(), cfg.Logging)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	store, closer, err := records.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := records.NewService(store, log, nil, cfg.Store.AppendOnCreate)
	return console.New(cmd.InOrStdin(), cmd.OutOrStdout(), svc, console.WithLogger(log)).Run(ctx)
}
