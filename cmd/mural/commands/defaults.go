package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/mural/internal/printer"
	"github.com/dyluth/mural/pkg/gallery"
)

var (
	defaultsDuration     string
	defaultsStartValue   string
	defaultsMinIncrement string
	defaultsFrom         string
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Read and change auction defaults",
}

var defaultsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current auction defaults",
	RunE:  runDefaultsShow,
}

var defaultsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the auction defaults",
	Long: `Replace the process-wide auction defaults. The new values apply only to
auctions created afterwards; existing auctions keep the defaults they
were created with.

Owner-gated: --from must be the configured owner identity.

Examples:
  mural defaults set --duration 24h --starting-value 2000000000000000000 --min-increment 0 --from 0xOWNER`,
	RunE: runDefaultsSet,
}

func init() {
	defaultsSetCmd.Flags().StringVar(&defaultsDuration, "duration", "", "Auction duration, Go syntax e.g. 24h (required)")
	defaultsSetCmd.Flags().StringVar(&defaultsStartValue, "starting-value", "", "Minimum first bid in wei (required)")
	defaultsSetCmd.Flags().StringVar(&defaultsMinIncrement, "min-increment", "", "Minimum increment over the highest bid in wei (required)")
	defaultsSetCmd.Flags().StringVar(&defaultsFrom, "from", "", "Caller identity (required)")

	defaultsCmd.AddCommand(defaultsShowCmd, defaultsSetCmd)
	rootCmd.AddCommand(defaultsCmd)
}

func runDefaultsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	d, err := h.Defaults(ctx)
	if err != nil {
		return err
	}

	printer.Printf("duration:              %s\n", d.Duration)
	printer.Printf("starting value:        %s\n", d.StartingValue)
	printer.Printf("minimum bid increment: %s\n", d.MinimumBidIncrement)
	return nil
}

func runDefaultsSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	duration, err := time.ParseDuration(defaultsDuration)
	if err != nil {
		return printer.Error(
			"invalid duration",
			err.Error(),
			[]string{"Use Go duration syntax, e.g. 30s, 15m, 24h"},
		)
	}

	startingValue, err := parseAmountFlag(defaultsStartValue, "starting-value")
	if err != nil {
		return err
	}

	minIncrement, err := parseAmountFlag(defaultsMinIncrement, "min-increment")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	d := gallery.Defaults{
		Duration:            duration,
		StartingValue:       startingValue,
		MinimumBidIncrement: minIncrement,
	}
	if err := h.SetDefaults(ctx, defaultsFrom, d); err != nil {
		return printer.Error(
			"failed to set defaults",
			err.Error(),
			nil,
		)
	}

	printer.Success("auction defaults updated\n")
	return nil
}
