// Package watch streams gallery notifications to a terminal.
package watch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/dyluth/mural/pkg/gallery"
)

var (
	bidColor    = color.New(color.FgGreen)
	pageColor   = color.New(color.FgCyan)
	finalColor  = color.New(color.FgYellow)
	cancelColor = color.New(color.FgRed)
)

// Run subscribes to the instance's notification channel and writes one line
// per notification to w until the context is cancelled. Unmarshal failures on
// the subscription are reported as lines too; the stream continues.
func Run(ctx context.Context, client *gallery.Client, w io.Writer) error {
	sub, err := client.SubscribeNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notifications: %w", err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n, ok := <-sub.Events():
			if !ok {
				return nil
			}
			fmt.Fprintln(w, FormatNotification(n))

		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "! %v\n", err)
		}
	}
}

// FormatNotification renders a notification as a single colored line:
// timestamp, event type, then type-specific fields.
func FormatNotification(n *gallery.Notification) string {
	ts := time.UnixMilli(n.AtMs).UTC().Format("15:04:05")

	switch n.Type {
	case gallery.NotificationPageAdded:
		return pageColor.Sprintf("%s  page_added         page=%d panels=%s", ts, n.PageNumber, formatPanelIDs(n.PanelIDs))
	case gallery.NotificationBidRaised:
		return bidColor.Sprintf("%s  bid_raised         auction=%d bidder=%s cumulative=%s", ts, n.AuctionID, n.Bidder, n.Amount)
	case gallery.NotificationBidWithdrawn:
		return bidColor.Sprintf("%s  bid_withdrawn      auction=%d bidder=%s amount=%s", ts, n.AuctionID, n.Bidder, n.Amount)
	case gallery.NotificationAuctionEnded:
		return finalColor.Sprintf("%s  auction_ended      auction=%d", ts, n.AuctionID)
	case gallery.NotificationAuctionCancelled:
		return cancelColor.Sprintf("%s  auction_cancelled  auction=%d", ts, n.AuctionID)
	case gallery.NotificationPageRevealed:
		return finalColor.Sprintf("%s  page_revealed      page=%d panels=%s", ts, n.PageNumber, formatPanelIDs(n.PanelIDs))
	case gallery.NotificationPermanentURI:
		return finalColor.Sprintf("%s  permanent_uri      token=%d uri=%s", ts, n.TokenID, n.TokenURI)
	default:
		return fmt.Sprintf("%s  %s", ts, n.Type)
	}
}

// formatPanelIDs renders a panel ID list as "1,2,3".
func formatPanelIDs(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
