// Package auction implements the per-panel auction state machine and the
// process-wide auction defaults registry.
package auction

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dyluth/mural/internal/escrow"
	"github.com/dyluth/mural/pkg/gallery"
)

// Machine owns the lifecycle of every auction: timing, highest bid tracking
// and state transitions. It validates bids in two phases - the starting value
// governs the first bid exclusively (>=), the highest bid plus minimum
// increment governs every later bid (strictly greater) - and delegates fund
// custody to the escrow ledger.
//
// The machine performs no locking; the auction house serializes operations
// and supplies a single authoritative time read per call.
type Machine struct {
	store  *gallery.Client
	ledger *escrow.Ledger
}

// NewMachine creates an auction state machine over the given store and ledger.
func NewMachine(store *gallery.Client, ledger *escrow.Ledger) *Machine {
	return &Machine{store: store, ledger: ledger}
}

// NewAuction allocates the next auction ID and builds an Active auction for
// the panel from the supplied defaults, with the window [now, now+duration).
// The auction is returned unpersisted: the registry commits it together with
// its page and panel in one transaction. Allocated IDs are never reused, even
// if that commit fails.
func (m *Machine) NewAuction(ctx context.Context, panelID uint64, d gallery.Defaults, now time.Time) (*gallery.Auction, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid defaults: %w", err)
	}

	id, err := m.store.NextAuctionID(ctx)
	if err != nil {
		return nil, err
	}

	start := now.Unix()
	return &gallery.Auction{
		ID:                  id,
		PanelID:             panelID,
		State:               gallery.AuctionStateActive,
		StartTime:           start,
		EndTime:             start + int64(d.Duration/time.Second),
		StartingValue:       new(big.Int).Set(d.StartingValue),
		MinimumBidIncrement: new(big.Int).Set(d.MinimumBidIncrement),
		HighestBid:          big.NewInt(0),
		HighestBidder:       gallery.NoBidder,
	}, nil
}

// Get retrieves an auction by ID.
// Fails with gallery.ErrAuctionNotFound if it does not exist.
func (m *Machine) Get(ctx context.Context, auctionID uint64) (*gallery.Auction, error) {
	a, err := m.store.GetAuction(ctx, auctionID)
	if gallery.IsNotFound(err) {
		return nil, gallery.ErrAuctionNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// PlaceBid validates and records a bid, returning the bidder's new cumulative
// bid on success. The deposit is added to the bidder's existing escrow, the
// auction's leader is updated, and a bid_raised notification is published
// after the writes commit.
//
// Equal cumulative bids never replace the incumbent leader; a new leader
// requires a strictly higher cumulative bid.
func (m *Machine) PlaceBid(ctx context.Context, auctionID uint64, bidder string, amount *big.Int, now time.Time) (*big.Int, error) {
	if bidder == "" {
		return nil, fmt.Errorf("bidder cannot be empty")
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("bid amount must be non-negative")
	}

	a, err := m.Get(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	if a.State != gallery.AuctionStateActive || now.Unix() >= a.EndTime {
		return nil, gallery.ErrAuctionNotActive
	}

	balance, err := m.ledger.BalanceOf(ctx, auctionID, bidder)
	if err != nil {
		return nil, err
	}
	newCumulative := new(big.Int).Add(balance, amount)

	if a.HighestBidder == gallery.NoBidder {
		// First bid ever: only the starting value applies.
		if newCumulative.Cmp(a.StartingValue) < 0 {
			return nil, gallery.ErrBidBelowStartingValue
		}
	} else {
		if newCumulative.Cmp(a.HighestBid) <= 0 {
			return nil, gallery.ErrBidBelowHighestBid
		}
		floor := new(big.Int).Add(a.HighestBid, a.MinimumBidIncrement)
		if newCumulative.Cmp(floor) < 0 {
			return nil, gallery.ErrBidBelowMinimumIncrement
		}
	}

	if _, err := m.ledger.Deposit(ctx, auctionID, bidder, amount); err != nil {
		return nil, err
	}

	a.HighestBid = newCumulative
	a.HighestBidder = bidder
	if err := m.store.PutAuction(ctx, a); err != nil {
		return nil, err
	}

	n := gallery.NewNotification(gallery.NotificationBidRaised, now)
	n.AuctionID = auctionID
	n.Bidder = bidder
	n.Amount = newCumulative.String()
	if err := m.store.PublishNotification(ctx, n); err != nil {
		return nil, err
	}

	return newCumulative, nil
}

// WithdrawBid returns and zeroes the bidder's escrowed funds, publishing a
// bid_withdrawn notification with the returned amount. The current leader
// cannot withdraw while the auction backs their bid; after cancellation the
// lock is disarmed and everyone may withdraw.
func (m *Machine) WithdrawBid(ctx context.Context, auctionID uint64, bidder string, now time.Time) (*big.Int, error) {
	a, err := m.Get(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	leader := a.HighestBidder
	if a.State == gallery.AuctionStateCancelled {
		leader = gallery.NoBidder
	}

	amount, err := m.ledger.Withdraw(ctx, auctionID, bidder, leader)
	if err != nil {
		return nil, err
	}

	n := gallery.NewNotification(gallery.NotificationBidWithdrawn, now)
	n.AuctionID = auctionID
	n.Bidder = bidder
	n.Amount = amount.String()
	if err := m.store.PublishNotification(ctx, n); err != nil {
		return nil, err
	}

	return amount, nil
}

// End marks the auction Ended and publishes an auction_ended notification.
// Allowed only once the deadline has passed; the Ended state is never set
// implicitly by the passage of time.
//
// Fails with gallery.ErrAuctionAlreadyEnded on a second call - the intended
// idempotency guard against double-processing.
func (m *Machine) End(ctx context.Context, auctionID uint64, now time.Time) error {
	a, err := m.Get(ctx, auctionID)
	if err != nil {
		return err
	}

	switch a.State {
	case gallery.AuctionStateEnded:
		return gallery.ErrAuctionAlreadyEnded
	case gallery.AuctionStateCancelled:
		return gallery.ErrAuctionNotActive
	}

	if now.Unix() < a.EndTime {
		return gallery.ErrAuctionStillRunning
	}

	a.State = gallery.AuctionStateEnded
	if err := m.store.PutAuction(ctx, a); err != nil {
		return err
	}

	n := gallery.NewNotification(gallery.NotificationAuctionEnded, now)
	n.AuctionID = auctionID
	return m.store.PublishNotification(ctx, n)
}

// Cancel is the administrative exit from Active. Terminal: a cancelled auction
// never ends, its panel can never be claimed, and every escrow entry becomes
// withdrawable. Publishes an auction_cancelled notification.
func (m *Machine) Cancel(ctx context.Context, auctionID uint64, now time.Time) error {
	a, err := m.Get(ctx, auctionID)
	if err != nil {
		return err
	}

	if a.State != gallery.AuctionStateActive {
		return gallery.ErrAuctionNotActive
	}

	a.State = gallery.AuctionStateCancelled
	if err := m.store.PutAuction(ctx, a); err != nil {
		return err
	}

	n := gallery.NewNotification(gallery.NotificationAuctionCancelled, now)
	n.AuctionID = auctionID
	return m.store.PublishNotification(ctx, n)
}

// TimeRemaining returns how long until the auction deadline, floored at zero.
// Pure read; the result says nothing about whether End has been called.
func (m *Machine) TimeRemaining(ctx context.Context, auctionID uint64, now time.Time) (time.Duration, error) {
	a, err := m.Get(ctx, auctionID)
	if err != nil {
		return 0, err
	}

	remaining := a.EndTime - now.Unix()
	if remaining < 0 {
		remaining = 0
	}
	return time.Duration(remaining) * time.Second, nil
}

// CheckBid returns the bidder's cumulative escrowed bid in the auction.
// Pure pass-through to the escrow ledger.
func (m *Machine) CheckBid(ctx context.Context, auctionID uint64, bidder string) (*big.Int, error) {
	return m.ledger.BalanceOf(ctx, auctionID, bidder)
}
