package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/minewatch/internal/repl"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the interactive console menu",
	Long:  `Presents the record-and-review menu on stdin/stdout: view a site's usage records, add new usage, or exit.`,
	RunE:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, log, reg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	menu := repl.New(reg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := menu.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
