// Package gallery provides type-safe Go definitions and Redis schema patterns
// for the Mural gallery state. The gallery is the shared state system where all
// Mural components (the auction house core, CLI, watchers and indexers)
// interact via well-defined data structures stored in Redis.
//
// All Redis keys and channels are namespaced by instance name to enable
// multiple Mural instances to safely coexist on a single Redis server.
package gallery

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// NoBidder is the sentinel bidder identity carried by an auction that has
// never received a valid bid.
const NoBidder = ""

// Auction represents the sale process for exactly one panel.
// Auctions are created alongside their panel when a page is added and move
// through a one-way lifecycle: Active, then Ended (or Cancelled).
type Auction struct {
	ID                  uint64       `json:"id"`                    // Sequential identifier, 1:1 with the panel being sold
	PanelID             uint64       `json:"panel_id"`              // Token ID of the panel under auction
	State               AuctionState `json:"state"`                 // Current lifecycle state
	StartTime           int64        `json:"start_time"`            // Unix timestamp (seconds) when the auction opened
	EndTime             int64        `json:"end_time"`              // Unix timestamp (seconds); bids at or after this instant are rejected
	StartingValue       *big.Int     `json:"starting_value"`        // Minimum cumulative value accepted for the first bid
	MinimumBidIncrement *big.Int     `json:"minimum_bid_increment"` // Minimum amount a new cumulative bid must exceed the highest by
	HighestBid          *big.Int     `json:"highest_bid"`           // Leading cumulative bid, zero until the first valid bid
	HighestBidder       string       `json:"highest_bidder"`        // Leading bidder address, NoBidder until the first valid bid
}

// AuctionState defines the lifecycle state of an auction.
type AuctionState string

const (
	// AuctionStatePending exists only instantaneously at creation before the
	// auction is marked active. It is never observable through the store.
	AuctionStatePending AuctionState = "pending"

	// AuctionStateActive indicates the auction accepts bids while the current
	// time is inside [start_time, end_time).
	AuctionStateActive AuctionState = "active"

	// AuctionStateEnded indicates the auction was explicitly ended after its
	// deadline passed. Terminal.
	AuctionStateEnded AuctionState = "ended"

	// AuctionStateCancelled indicates an administrative exit from Active.
	// Terminal; escrow becomes withdrawable for every bidder.
	AuctionStateCancelled AuctionState = "cancelled"
)

// Page represents an ordered group of panels sharing a reveal lifecycle.
// The base URI starts as an obscured locator and is replaced exactly once,
// when every panel in the page has been claimed.
type Page struct {
	PageNumber uint64   `json:"page_number"` // Sequential, 1-based, assigned at creation
	PanelIDs   []uint64 `json:"panel_ids"`   // Ordered panel token IDs, fixed at creation
	BaseURI    string   `json:"base_uri"`    // Opaque locator; obscured until reveal
	Revealed   bool     `json:"revealed"`    // True once the permanent locator has been set
}

// Panel represents one sellable item. Token IDs are sequential across the
// whole registry, never reset per page and never reused.
type Panel struct {
	TokenID    uint64 `json:"token_id"`    // Registry-wide sequential identifier
	PageNumber uint64 `json:"page_number"` // Back-reference to the owning page
	AuctionID  uint64 `json:"auction_id"`  // 1:1 back-reference to the panel's auction
	Owner      string `json:"owner"`       // Empty until claimed; set exactly once
}

// Claimed reports whether the panel's ownership has been transferred.
func (p *Panel) Claimed() bool {
	return p.Owner != ""
}

// Defaults is the process-wide auction configuration read at the moment a new
// auction is created. Later changes never retroactively affect existing
// auctions.
type Defaults struct {
	Duration            time.Duration `json:"duration"`
	StartingValue       *big.Int      `json:"starting_value"`
	MinimumBidIncrement *big.Int      `json:"minimum_bid_increment"`
}

// NotificationType identifies the kind of state change a notification carries.
type NotificationType string

const (
	// NotificationPageAdded is emitted when a page and its panel auctions are created
	NotificationPageAdded NotificationType = "page_added"

	// NotificationBidRaised is emitted when a bid becomes the new highest cumulative bid
	NotificationBidRaised NotificationType = "bid_raised"

	// NotificationBidWithdrawn is emitted when a non-leading bidder reclaims escrowed funds
	NotificationBidWithdrawn NotificationType = "bid_withdrawn"

	// NotificationAuctionEnded is emitted when an auction is explicitly ended
	NotificationAuctionEnded NotificationType = "auction_ended"

	// NotificationAuctionCancelled is emitted on the administrative cancel path
	NotificationAuctionCancelled NotificationType = "auction_cancelled"

	// NotificationPageRevealed is emitted once when a fully sold page is revealed
	NotificationPageRevealed NotificationType = "page_revealed"

	// NotificationPermanentURI is emitted once per panel on reveal with the final token URI
	NotificationPermanentURI NotificationType = "permanent_uri"
)

// Notification is the wire form of a state-change event published to external
// observers (watchers, indexers). Notifications are emitted only after the
// corresponding store mutation has committed; the core never consumes them.
type Notification struct {
	ID   string           `json:"id"`    // UUID - unique identifier for this notification
	Type NotificationType `json:"type"`  // Kind of state change
	AtMs int64            `json:"at_ms"` // Unix timestamp in milliseconds of the operation's time read

	PageNumber uint64   `json:"page_number,omitempty"` // page_added, page_revealed
	PanelIDs   []uint64 `json:"panel_ids,omitempty"`   // page_added, page_revealed
	AuctionID  uint64   `json:"auction_id,omitempty"`  // bid_raised, bid_withdrawn, auction_ended, auction_cancelled
	Bidder     string   `json:"bidder,omitempty"`      // bid_raised, bid_withdrawn
	Amount     string   `json:"amount,omitempty"`      // bid_raised (cumulative), bid_withdrawn (returned); decimal string
	TokenURI   string   `json:"token_uri,omitempty"`   // permanent_uri
	TokenID    uint64   `json:"token_id,omitempty"`    // permanent_uri
}

// NewNotification builds a notification of the given type stamped with the
// operation's authoritative time read and a fresh UUID.
func NewNotification(t NotificationType, at time.Time) *Notification {
	return &Notification{
		ID:   uuid.New().String(),
		Type: t,
		AtMs: at.UnixMilli(),
	}
}

// Validate checks if the Auction has valid field values.
// Returns an error if any validation fails.
func (a *Auction) Validate() error {
	if a.ID == 0 {
		return fmt.Errorf("auction ID must be >= 1")
	}

	if a.PanelID == 0 {
		return fmt.Errorf("panel ID must be >= 1")
	}

	if err := a.State.Validate(); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}

	if a.EndTime < a.StartTime {
		return fmt.Errorf("end time %d precedes start time %d", a.EndTime, a.StartTime)
	}

	if a.StartingValue == nil || a.MinimumBidIncrement == nil || a.HighestBid == nil {
		return fmt.Errorf("amounts must be non-nil")
	}

	if a.StartingValue.Sign() < 0 || a.MinimumBidIncrement.Sign() < 0 || a.HighestBid.Sign() < 0 {
		return fmt.Errorf("amounts must be non-negative")
	}

	// highest_bid == 0 <=> highest_bidder == none
	if a.HighestBid.Sign() == 0 && a.HighestBidder != NoBidder {
		return fmt.Errorf("highest bidder %q set without a highest bid", a.HighestBidder)
	}
	if a.HighestBid.Sign() > 0 && a.HighestBidder == NoBidder {
		return fmt.Errorf("highest bid %s recorded without a bidder", a.HighestBid)
	}

	return nil
}

// Validate checks if the AuctionState is a valid enum value.
func (s AuctionState) Validate() error {
	switch s {
	case AuctionStatePending, AuctionStateActive, AuctionStateEnded, AuctionStateCancelled:
		return nil
	default:
		return fmt.Errorf("unknown auction state: %q", s)
	}
}

// Validate checks if the Page has valid field values.
func (p *Page) Validate() error {
	if p.PageNumber == 0 {
		return fmt.Errorf("page number must be >= 1")
	}

	if len(p.PanelIDs) == 0 {
		return fmt.Errorf("page must contain at least one panel")
	}

	for i, id := range p.PanelIDs {
		if id == 0 {
			return fmt.Errorf("invalid panel ID at index %d: must be >= 1", i)
		}
	}

	return nil
}

// Validate checks if the Panel has valid field values.
func (p *Panel) Validate() error {
	if p.TokenID == 0 {
		return fmt.Errorf("token ID must be >= 1")
	}

	if p.PageNumber == 0 {
		return fmt.Errorf("page number must be >= 1")
	}

	if p.AuctionID == 0 {
		return fmt.Errorf("auction ID must be >= 1")
	}

	return nil
}

// Validate checks if the Defaults have valid field values.
func (d *Defaults) Validate() error {
	if d.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d.Duration)
	}

	if d.StartingValue == nil || d.StartingValue.Sign() < 0 {
		return fmt.Errorf("starting value must be a non-negative amount")
	}

	if d.MinimumBidIncrement == nil || d.MinimumBidIncrement.Sign() < 0 {
		return fmt.Errorf("minimum bid increment must be a non-negative amount")
	}

	return nil
}

// Validate checks if the Notification has valid field values.
func (n *Notification) Validate() error {
	if !isValidUUID(n.ID) {
		return fmt.Errorf("invalid notification ID: not a valid UUID")
	}

	if err := n.Type.Validate(); err != nil {
		return fmt.Errorf("invalid notification type: %w", err)
	}

	if n.AtMs <= 0 {
		return fmt.Errorf("at_ms must be a positive unix timestamp")
	}

	return nil
}

// Validate checks if the NotificationType is a valid enum value.
func (t NotificationType) Validate() error {
	switch t {
	case NotificationPageAdded, NotificationBidRaised, NotificationBidWithdrawn,
		NotificationAuctionEnded, NotificationAuctionCancelled,
		NotificationPageRevealed, NotificationPermanentURI:
		return nil
	default:
		return fmt.Errorf("unknown notification type: %q", t)
	}
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
