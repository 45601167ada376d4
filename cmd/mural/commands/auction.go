package commands

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/mural/internal/display"
	"github.com/dyluth/mural/internal/printer"
)

var (
	auctionCancelFrom string
	auctionShowJSON   bool
)

var auctionCmd = &cobra.Command{
	Use:   "auction",
	Short: "Inspect and finalize auctions",
}

var auctionShowCmd = &cobra.Command{
	Use:   "show AUCTION",
	Short: "Show one auction",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuctionShow,
}

var auctionEndCmd = &cobra.Command{
	Use:   "end AUCTION",
	Short: "End an auction whose deadline has passed",
	Long: `Persist the Ended state for an auction. Allowed for any caller, but
only once the auction deadline has passed, and only once per auction.
Ending is what makes the winner's claim possible.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuctionEnd,
}

var auctionCancelCmd = &cobra.Command{
	Use:   "cancel AUCTION",
	Short: "Cancel an active auction (administrative)",
	Long: `Cancel an active auction. Terminal: the panel can never be claimed and
every bidder, including the current leader, may withdraw their escrow.

Owner-gated: --from must be the configured owner identity.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuctionCancel,
}

var auctionTimeCmd = &cobra.Command{
	Use:   "time AUCTION",
	Short: "Show time remaining until the auction deadline",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuctionTime,
}

func init() {
	auctionShowCmd.Flags().BoolVar(&auctionShowJSON, "json", false, "Print the full auction as JSON")
	auctionCancelCmd.Flags().StringVar(&auctionCancelFrom, "from", "", "Caller identity (required)")

	auctionCmd.AddCommand(auctionShowCmd, auctionEndCmd, auctionCancelCmd, auctionTimeCmd)
	rootCmd.AddCommand(auctionCmd)
}

func runAuctionShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	auctionID, err := parseID(args[0], "auction ID")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	a, err := h.GetAuction(ctx, auctionID)
	if err != nil {
		return err
	}

	if auctionShowJSON {
		return display.FormatJSON(os.Stdout, a)
	}

	display.FormatAuctionSummary(os.Stdout, a, time.Now())
	return nil
}

func runAuctionEnd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	auctionID, err := parseID(args[0], "auction ID")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := h.EndAuction(ctx, auctionID); err != nil {
		return printer.Error(
			"failed to end auction",
			err.Error(),
			[]string{"Check the deadline with 'mural auction time'"},
		)
	}

	printer.Success("ended auction %d\n", auctionID)
	return nil
}

func runAuctionCancel(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	auctionID, err := parseID(args[0], "auction ID")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := h.CancelAuction(ctx, auctionCancelFrom, auctionID); err != nil {
		return printer.Error(
			"failed to cancel auction",
			err.Error(),
			nil,
		)
	}

	printer.Warning("cancelled auction %d; escrow is now withdrawable by all bidders\n", auctionID)
	return nil
}

func runAuctionTime(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	auctionID, err := parseID(args[0], "auction ID")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	remaining, err := h.TimeRemaining(ctx, auctionID)
	if err != nil {
		return err
	}

	printer.Printf("%s\n", remaining)
	return nil
}
