package gallery

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Typed domain errors surfaced by the auction house core.
//
// Every failure is synchronous and non-retryable without caller correction:
// callers must re-check state or adjust their input before resubmitting.
// Errors carrying operation-specific identifiers are structs; all others are
// sentinels usable with errors.Is.

var (
	// ErrNotAuthorized indicates the caller lacks the administrative identity.
	ErrNotAuthorized = errors.New("caller is not the gallery owner")

	// ErrInvalidPanelsCount indicates a page was requested with zero panels.
	ErrInvalidPanelsCount = errors.New("page must contain at least one panel")

	// ErrPageNotFound indicates the requested page does not exist.
	ErrPageNotFound = errors.New("page not found")

	// ErrPageAlreadyRevealed indicates the page's permanent URI is already set.
	ErrPageAlreadyRevealed = errors.New("page already revealed")

	// ErrInvalidPanelTokenID indicates the panel does not exist.
	ErrInvalidPanelTokenID = errors.New("invalid panel token ID")

	// ErrPanelAlreadyClaimed indicates the panel's one-shot claim was already used.
	ErrPanelAlreadyClaimed = errors.New("panel already claimed")

	// ErrAuctionNotFound indicates the auction does not exist.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrAuctionNotActive indicates the auction is not accepting bids, either
	// because its state is terminal or its deadline has passed.
	ErrAuctionNotActive = errors.New("auction not active")

	// ErrAuctionAlreadyEnded indicates end was called on an ended auction.
	// This idempotent failure is the intended guard against double-processing.
	ErrAuctionAlreadyEnded = errors.New("auction already ended")

	// ErrAuctionStillRunning indicates end was called before the deadline.
	ErrAuctionStillRunning = errors.New("auction deadline has not passed")

	// ErrBidBelowStartingValue indicates a first bid below the starting value.
	ErrBidBelowStartingValue = errors.New("bid below auction starting value")

	// ErrBidBelowHighestBid indicates a cumulative bid not strictly above the leader.
	ErrBidBelowHighestBid = errors.New("bid does not exceed highest bid")

	// ErrBidBelowMinimumIncrement indicates a cumulative bid above the leader
	// but below the required increment over it.
	ErrBidBelowMinimumIncrement = errors.New("bid below minimum increment over highest bid")

	// ErrNoBidToWithdraw indicates the bidder has no escrowed funds in the auction.
	ErrNoBidToWithdraw = errors.New("no bid to withdraw")

	// ErrCannotWithdrawHighestBid indicates the current leader tried to
	// withdraw; the leading funds stay locked as the active bid.
	ErrCannotWithdrawHighestBid = errors.New("cannot withdraw the highest bid")

	// ErrDefaultsNotFound indicates the defaults record has not been seeded.
	ErrDefaultsNotFound = errors.New("auction defaults not configured")
)

// PanelNotSoldError indicates a reveal was attempted while at least one panel
// remains unclaimed. It names the first offending panel for diagnostics.
type PanelNotSoldError struct {
	TokenID uint64
}

func (e *PanelNotSoldError) Error() string {
	return fmt.Sprintf("panel %d has not been sold", e.TokenID)
}

// PanelAuctionNotEndedError indicates a claim was attempted before the
// panel's auction reached the Ended state.
type PanelAuctionNotEndedError struct {
	AuctionID uint64
}

func (e *PanelAuctionNotEndedError) Error() string {
	return fmt.Sprintf("auction %d for panel has not ended", e.AuctionID)
}

// NotPanelAuctionWinnerError indicates the claim caller is not the winning
// bidder of the panel's auction.
type NotPanelAuctionWinnerError struct {
	AuctionID uint64
}

func (e *NotPanelAuctionWinnerError) Error() string {
	return fmt.Sprintf("caller is not the winner of auction %d", e.AuctionID)
}

// IsNotFound returns true if the error is a Redis "key not found" error
// (redis.Nil). Use this to check if a raw store read returned "not found".
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
