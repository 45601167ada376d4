package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dyluth/mural/internal/printer"
	"github.com/dyluth/mural/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream gallery notifications",
	Long: `Stream the instance's state-change notifications until interrupted:
pages added, bids raised and withdrawn, auctions ended or cancelled,
pages revealed and permanent token URIs assigned.

Delivery is Redis Pub/Sub: at-most-once, live events only.

Examples:
  mural watch`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, client, cfg, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	printer.Step("watching instance '%s' (ctrl-c to stop)\n", cfg.Instance)
	return watch.Run(ctx, client, os.Stdout)
}
