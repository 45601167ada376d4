package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/mural/internal/printer"
)

var (
	bidFrom   string
	bidAmount string
)

var bidCmd = &cobra.Command{
	Use:   "bid",
	Short: "Place, withdraw and check bids",
}

var bidPlaceCmd = &cobra.Command{
	Use:   "place AUCTION",
	Short: "Place a bid on an auction",
	Long: `Place a bid on an active auction. The amount is added to any value you
already hold in the auction's escrow; your cumulative bid must meet the
starting value (first bid on the auction) or exceed the current highest
bid by at least the minimum increment.

Amounts are wei-scale integers.

Examples:
  mural bid place 7 --from 0xBIDDER --amount 2000000000000000000`,
	Args: cobra.ExactArgs(1),
	RunE: runBidPlace,
}

var bidWithdrawCmd = &cobra.Command{
	Use:   "withdraw AUCTION",
	Short: "Withdraw your escrowed funds from an auction",
	Long: `Withdraw your full escrowed balance from an auction. The current
highest bidder cannot withdraw; their funds back the active bid.`,
	Args: cobra.ExactArgs(1),
	RunE: runBidWithdraw,
}

var bidCheckCmd = &cobra.Command{
	Use:   "check AUCTION",
	Short: "Check your cumulative escrowed bid",
	Args:  cobra.ExactArgs(1),
	RunE:  runBidCheck,
}

func init() {
	bidCmd.PersistentFlags().StringVar(&bidFrom, "from", "", "Bidder identity (required)")
	bidPlaceCmd.Flags().StringVar(&bidAmount, "amount", "", "Bid amount in wei (required)")

	bidCmd.AddCommand(bidPlaceCmd, bidWithdrawCmd, bidCheckCmd)
	rootCmd.AddCommand(bidCmd)
}

func runBidPlace(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	auctionID, err := parseID(args[0], "auction ID")
	if err != nil {
		return err
	}

	amount, err := parseAmountFlag(bidAmount, "amount")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	cumulative, err := h.PlaceBid(ctx, auctionID, bidFrom, amount)
	if err != nil {
		return printer.Error(
			"bid rejected",
			err.Error(),
			[]string{"Check the auction with 'mural auction show' and adjust the amount"},
		)
	}

	printer.Success("bid recorded: cumulative %s on auction %d\n", cumulative, auctionID)
	return nil
}

func runBidWithdraw(cmd *cobra.Command, args []string) error {
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

	amount, err := h.WithdrawBid(ctx, auctionID, bidFrom)
	if err != nil {
		return printer.Error(
			"withdrawal rejected",
			err.Error(),
			nil,
		)
	}

	printer.Success("withdrew %s from auction %d\n", amount, auctionID)
	return nil
}

func runBidCheck(cmd *cobra.Command, args []string) error {
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

	balance, err := h.CheckBid(ctx, auctionID, bidFrom)
	if err != nil {
		return err
	}

	printer.Printf("%s\n", balance)
	return nil
}
