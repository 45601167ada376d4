// Package escrow implements the per-auction escrow ledger: cumulative
// deposited value per bidder, with withdrawal locked for the current leader.
package escrow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dyluth/mural/pkg/gallery"
)

// Ledger tracks cumulative deposited value per (auction, bidder) and enforces
// the withdrawal rules. The ledger performs no locking of its own; the
// auction house serializes every operation that reaches it.
type Ledger struct {
	store *gallery.Client
}

// NewLedger creates a ledger over the given gallery store.
func NewLedger(store *gallery.Client) *Ledger {
	return &Ledger{store: store}
}

// Deposit increases the bidder's cumulative bid in the auction by amount and
// returns the new cumulative balance. The ledger places no constraint on the
// amount itself; the auction state machine validates it against auction rules
// before depositing.
func (l *Ledger) Deposit(ctx context.Context, auctionID uint64, bidder string, amount *big.Int) (*big.Int, error) {
	if bidder == "" {
		return nil, fmt.Errorf("bidder cannot be empty")
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("deposit amount must be non-negative")
	}

	balance, err := l.store.EscrowBalance(ctx, auctionID, bidder)
	if err != nil {
		return nil, fmt.Errorf("failed to read escrow balance: %w", err)
	}

	cumulative := new(big.Int).Add(balance, amount)
	if err := l.store.SetEscrowBalance(ctx, auctionID, bidder, cumulative); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	return cumulative, nil
}

// Withdraw returns and zeroes the bidder's cumulative bid in the auction.
// currentLeader is the auction's highest bidder at call time; passing
// gallery.NoBidder disarms the leader lock (used once an auction is
// cancelled and the leading funds no longer back an active bid).
//
// Fails with gallery.ErrNoBidToWithdraw if the balance is zero and with
// gallery.ErrCannotWithdrawHighestBid if the bidder is the current leader.
// The balance is zeroed and the amount returned in one step; no partial
// state is observable to other operations.
func (l *Ledger) Withdraw(ctx context.Context, auctionID uint64, bidder, currentLeader string) (*big.Int, error) {
	if bidder == "" {
		return nil, fmt.Errorf("bidder cannot be empty")
	}

	if currentLeader != gallery.NoBidder && bidder == currentLeader {
		return nil, gallery.ErrCannotWithdrawHighestBid
	}

	balance, err := l.store.EscrowBalance(ctx, auctionID, bidder)
	if err != nil {
		return nil, fmt.Errorf("failed to read escrow balance: %w", err)
	}

	if balance.Sign() == 0 {
		return nil, gallery.ErrNoBidToWithdraw
	}

	if err := l.store.ClearEscrowBalance(ctx, auctionID, bidder); err != nil {
		return nil, fmt.Errorf("failed to zero escrow balance: %w", err)
	}

	return balance, nil
}

// BalanceOf returns the bidder's cumulative bid in the auction.
// Pure read; returns zero if no entry exists.
func (l *Ledger) BalanceOf(ctx context.Context, auctionID uint64, bidder string) (*big.Int, error) {
	return l.store.EscrowBalance(ctx, auctionID, bidder)
}
