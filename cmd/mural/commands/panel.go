package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/mural/internal/printer"
)

var panelClaimFrom string

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Claim panels and resolve their metadata",
}

var panelClaimCmd = &cobra.Command{
	Use:   "claim TOKEN",
	Short: "Claim a panel won at auction",
	Long: `Transfer ownership of a panel to the winner of its auction. The
auction must have been ended first, and a panel can be claimed exactly
once. Claiming every panel of a page is what makes its reveal possible.

Examples:
  mural panel claim 3 --from 0xWINNER`,
	Args: cobra.ExactArgs(1),
	RunE: runPanelClaim,
}

var panelURICmd = &cobra.Command{
	Use:   "uri TOKEN",
	Short: "Print a panel's token URI",
	Args:  cobra.ExactArgs(1),
	RunE:  runPanelURI,
}

func init() {
	panelClaimCmd.Flags().StringVar(&panelClaimFrom, "from", "", "Caller identity (required)")

	panelCmd.AddCommand(panelClaimCmd, panelURICmd)
	rootCmd.AddCommand(panelCmd)
}

func runPanelClaim(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tokenID, err := parseID(args[0], "panel token ID")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := h.ClaimPanel(ctx, tokenID, panelClaimFrom); err != nil {
		return printer.Error(
			"claim rejected",
			err.Error(),
			[]string{"The panel's auction must be ended and you must be its winner"},
		)
	}

	printer.Success("panel %d claimed by %s\n", tokenID, panelClaimFrom)
	return nil
}

func runPanelURI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tokenID, err := parseID(args[0], "panel token ID")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	uri, err := h.TokenURI(ctx, tokenID)
	if err != nil {
		return err
	}

	printer.Printf("%s\n", uri)
	return nil
}
