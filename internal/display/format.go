// Package display formats gallery state for CLI output.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/dyluth/mural/pkg/gallery"
)

// FormatPagesTable writes pages as a formatted table to the provided writer.
// The table includes columns: PAGE, PANELS, REVEALED, and BASE URI (truncated).
// Returns the number of pages formatted.
func FormatPagesTable(w io.Writer, pages []*gallery.Page, instanceName string) int {
	if len(pages) == 0 {
		fmt.Fprintf(w, "No pages found for instance '%s'\n", instanceName)
		return 0
	}

	fmt.Fprintf(w, "Pages for instance '%s':\n\n", instanceName)

	fmt.Fprintf(w, "%-6s %-8s %-9s %s\n",
		"PAGE", "PANELS", "REVEALED", "BASE URI")
	fmt.Fprintf(w, "%-6s %-8s %-9s %s\n",
		"------", "--------", "---------", "----------------------------------------")

	for _, p := range pages {
		fmt.Fprintf(w, "%-6d %-8d %-9s %s\n",
			p.PageNumber,
			len(p.PanelIDs),
			formatRevealed(p.Revealed),
			formatURI(p.BaseURI),
		)
	}

	countMsg := "page"
	if len(pages) != 1 {
		countMsg = "pages"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(pages), countMsg)

	return len(pages)
}

// FormatAuctionSummary writes a one-auction summary in key: value form.
// now is the caller's time reference for the remaining-time line.
func FormatAuctionSummary(w io.Writer, a *gallery.Auction, now time.Time) {
	fmt.Fprintf(w, "Auction %d (panel %d)\n", a.ID, a.PanelID)
	fmt.Fprintf(w, "  state:          %s\n", a.State)
	fmt.Fprintf(w, "  window:         %s → %s\n",
		time.Unix(a.StartTime, 0).UTC().Format(time.RFC3339),
		time.Unix(a.EndTime, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  remaining:      %s\n", formatRemaining(a.EndTime, now))
	fmt.Fprintf(w, "  starting value: %s\n", a.StartingValue)
	fmt.Fprintf(w, "  min increment:  %s\n", a.MinimumBidIncrement)
	if a.HighestBidder == gallery.NoBidder {
		fmt.Fprintf(w, "  highest bid:    - (no bids yet)\n")
	} else {
		fmt.Fprintf(w, "  highest bid:    %s by %s\n", a.HighestBid, a.HighestBidder)
	}
}

// FormatBalancesTable writes an auction's escrow balances sorted by bidder.
func FormatBalancesTable(w io.Writer, auctionID uint64, balances map[string]*big.Int) {
	if len(balances) == 0 {
		fmt.Fprintf(w, "No escrow entries for auction %d\n", auctionID)
		return
	}

	bidders := make([]string, 0, len(balances))
	for bidder := range balances {
		bidders = append(bidders, bidder)
	}
	sort.Strings(bidders)

	fmt.Fprintf(w, "Escrow for auction %d:\n\n", auctionID)
	for _, bidder := range bidders {
		fmt.Fprintf(w, "  %-44s %s\n", bidder, balances[bidder])
	}
}

// FormatJSON writes any gallery entity as pretty-printed JSON to the writer.
// Used by the --json flags to display complete details.
func FormatJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	fmt.Fprintln(w)

	return nil
}

// FormatJSONL writes pages as line-delimited JSON (JSONL) to the writer.
// Each page is written as a single JSON object on its own line.
// This format is ideal for streaming and processing with tools like jq.
func FormatJSONL(w io.Writer, pages []*gallery.Page) error {
	for _, page := range pages {
		data, err := json.Marshal(page)
		if err != nil {
			return fmt.Errorf("failed to marshal page to JSON: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", string(data))
		if err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// formatRevealed renders the reveal flag for table display.
func formatRevealed(revealed bool) string {
	if revealed {
		return "yes"
	}
	return "no"
}

// formatURI truncates long locators for table display. Empty returns "-".
func formatURI(uri string) string {
	if uri == "" {
		return "-"
	}
	if len(uri) > 40 {
		return uri[:37] + "..."
	}
	return uri
}

// formatRemaining renders time until the deadline, or "expired".
func formatRemaining(endTime int64, now time.Time) string {
	remaining := endTime - now.Unix()
	if remaining <= 0 {
		return "expired"
	}
	return (time.Duration(remaining) * time.Second).String()
}
