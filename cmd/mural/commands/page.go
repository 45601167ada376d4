package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/mural/internal/display"
	"github.com/dyluth/mural/internal/printer"
	"github.com/dyluth/mural/pkg/gallery"
)

var (
	pageAddPanels  int
	pageAddBaseURI string
	pageAddFrom    string

	pageShowJSON bool

	pageListOutput string

	pageRevealBaseURI string
	pageRevealFrom    string
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Create, inspect and reveal pages",
}

var pageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a page of panels, one auction per panel",
	Long: `Create a page with the given number of panels. Each panel gets its own
auction, opened immediately with the current auction defaults. The page's
locator stays obscured until the page is fully sold and revealed.

Owner-gated: --from must be the configured owner identity.

Examples:
  mural page add --panels 6 --base-uri ipfs://obscured-cid --from 0xOWNER`,
	RunE: runPageAdd,
}

var pageShowCmd = &cobra.Command{
	Use:   "show PAGE",
	Short: "Show one page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageShow,
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all pages",
	Long: `List every page of the instance as a table or JSONL.

Examples:
  mural page list
  mural page list --output json | jq -r 'select(.revealed) | .page_number'`,
	RunE: runPageList,
}

var pageRevealCmd = &cobra.Command{
	Use:   "reveal PAGE",
	Short: "Reveal a fully sold page",
	Long: `Switch the page locator to its permanent revealed form. Allowed only
once every panel of the page has been claimed, and at most once per page.

Owner-gated: --from must be the configured owner identity.`,
	Args: cobra.ExactArgs(1),
	RunE: runPageReveal,
}

func init() {
	pageAddCmd.Flags().IntVar(&pageAddPanels, "panels", 0, "Number of panels on the page (required)")
	pageAddCmd.Flags().StringVar(&pageAddBaseURI, "base-uri", "", "Obscured base URI for the unrevealed page (required)")
	pageAddCmd.Flags().StringVar(&pageAddFrom, "from", "", "Caller identity (required)")

	pageShowCmd.Flags().BoolVar(&pageShowJSON, "json", false, "Print the full page as JSON")

	pageListCmd.Flags().StringVarP(&pageListOutput, "output", "o", "default", "Output format: default or json")

	pageRevealCmd.Flags().StringVar(&pageRevealBaseURI, "base-uri", "", "Permanent revealed base URI (required)")
	pageRevealCmd.Flags().StringVar(&pageRevealFrom, "from", "", "Caller identity (required)")

	pageCmd.AddCommand(pageAddCmd, pageShowCmd, pageListCmd, pageRevealCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	pageNumber, err := h.AddPage(ctx, pageAddFrom, pageAddPanels, pageAddBaseURI)
	if err != nil {
		return printer.Error(
			"failed to add page",
			err.Error(),
			nil,
		)
	}

	page, err := h.GetPage(ctx, pageNumber)
	if err != nil {
		return err
	}

	printer.Success("created page %d with panels %v\n", pageNumber, page.PanelIDs)
	return nil
}

func runPageShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pageNumber, err := parseID(args[0], "page number")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	page, err := h.GetPage(ctx, pageNumber)
	if err != nil {
		return err
	}

	if pageShowJSON {
		return display.FormatJSON(os.Stdout, page)
	}

	sold, err := h.IsPageSold(ctx, pageNumber)
	if err != nil {
		return err
	}

	printer.Printf("Page %d: %d panels, revealed=%v, sold=%v\n", page.PageNumber, len(page.PanelIDs), page.Revealed, sold)
	printer.Printf("  base URI: %s\n", page.BaseURI)
	printer.Printf("  panels:   %v\n", page.PanelIDs)
	return nil
}

func runPageList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, client, cfg, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	count, err := client.PageCount(ctx)
	if err != nil {
		return err
	}

	pages := make([]*gallery.Page, 0, count)
	for n := uint64(1); n <= count; n++ {
		page, err := h.GetPage(ctx, n)
		if err != nil {
			return err
		}
		pages = append(pages, page)
	}

	switch pageListOutput {
	case "default":
		display.FormatPagesTable(os.Stdout, pages, cfg.Instance)
		return nil
	case "json":
		return display.FormatJSONL(os.Stdout, pages)
	default:
		return printer.Error(
			"invalid output format",
			"Unknown format: "+pageListOutput,
			[]string{"Valid formats: default, json"},
		)
	}
}

func runPageReveal(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pageNumber, err := parseID(args[0], "page number")
	if err != nil {
		return err
	}

	h, client, _, err := openHouse(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := h.RevealPage(ctx, pageRevealFrom, pageNumber, pageRevealBaseURI); err != nil {
		return printer.Error(
			"failed to reveal page",
			err.Error(),
			[]string{"Every panel of the page must be claimed before reveal"},
		)
	}

	printer.Success("revealed page %d\n", pageNumber)
	return nil
}
