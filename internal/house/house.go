// Package house implements the auction house core: the single public
// operation surface over the escrow ledger, auction state machine and
// panel/page registry.
//
// Every public operation executes as one atomic, serialized unit - a global
// mutex admits one operation at a time, the clock is read exactly once per
// operation, and notifications are published only after the corresponding
// store mutation commits. Callers retry failed operations; nothing is ever
// resumed mid-operation.
package house

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dyluth/mural/internal/auction"
	"github.com/dyluth/mural/internal/escrow"
	"github.com/dyluth/mural/internal/registry"
	"github.com/dyluth/mural/pkg/gallery"
)

// House is the auction house. It holds the administrative owner identity and
// serializes every operation against the shared gallery state.
type House struct {
	mu sync.Mutex

	store    *gallery.Client
	clock    gallery.Clock
	owner    string
	ledger   *escrow.Ledger
	auctions *auction.Machine
	registry *registry.Registry
}

// New creates an auction house over the given store.
// The owner is the single administrative identity checked on addPage,
// revealPage, cancelAuction and setAuctionDefaults; it must not be empty.
func New(store *gallery.Client, owner string, clock gallery.Clock) (*House, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner identity cannot be empty")
	}
	if clock == nil {
		clock = gallery.SystemClock{}
	}

	ledger := escrow.NewLedger(store)
	machine := auction.NewMachine(store, ledger)

	return &House{
		store:    store,
		clock:    clock,
		owner:    owner,
		ledger:   ledger,
		auctions: machine,
		registry: registry.NewRegistry(store, machine),
	}, nil
}

// Bootstrap seeds the auction defaults record from configuration if, and only
// if, the instance has none yet. Safe to call on every startup.
func (h *House) Bootstrap(ctx context.Context, d gallery.Defaults) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.auctions.SeedDefaults(ctx, d)
	return err
}

// checkOwner gates administrative operations on the configured identity.
func (h *House) checkOwner(caller string) error {
	if caller != h.owner {
		return gallery.ErrNotAuthorized
	}
	return nil
}

// AddPage creates a page of panelCount panels with one auction per panel,
// using the auction defaults current at this moment. Owner-gated.
// Returns the new page number.
func (h *House) AddPage(ctx context.Context, caller string, panelCount int, obscuredBaseURI string) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOwner(caller); err != nil {
		return 0, err
	}

	d, err := h.auctions.CurrentDefaults(ctx)
	if err != nil {
		return 0, err
	}

	page, err := h.registry.AddPage(ctx, panelCount, obscuredBaseURI, d, h.clock.Now())
	if err != nil {
		return 0, err
	}

	return page.PageNumber, nil
}

// RevealPage switches the page locator to its permanent revealed form.
// Owner-gated; gated on every panel of the page having been claimed.
func (h *House) RevealPage(ctx context.Context, caller string, pageNumber uint64, revealedBaseURI string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOwner(caller); err != nil {
		return err
	}

	return h.registry.RevealPage(ctx, pageNumber, revealedBaseURI, h.clock.Now())
}

// PlaceBid validates and records a bid on the auction, accumulating on top of
// the bidder's existing escrow. Returns the new cumulative bid.
func (h *House) PlaceBid(ctx context.Context, auctionID uint64, bidder string, amount *big.Int) (*big.Int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.PlaceBid(ctx, auctionID, bidder, amount, h.clock.Now())
}

// WithdrawBid returns and zeroes the bidder's escrowed funds in the auction.
// The current highest bidder cannot withdraw.
func (h *House) WithdrawBid(ctx context.Context, auctionID uint64, bidder string) (*big.Int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.WithdrawBid(ctx, auctionID, bidder, h.clock.Now())
}

// EndAuction persists the Ended state once the auction deadline has passed.
// Open to any caller; fails on a second call.
func (h *House) EndAuction(ctx context.Context, auctionID uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.End(ctx, auctionID, h.clock.Now())
}

// CancelAuction is the administrative exit from Active. Owner-gated.
func (h *House) CancelAuction(ctx context.Context, caller string, auctionID uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOwner(caller); err != nil {
		return err
	}

	return h.auctions.Cancel(ctx, auctionID, h.clock.Now())
}

// ClaimPanel transfers the panel's ownership to its auction's winner.
// Succeeds at most once per panel.
func (h *House) ClaimPanel(ctx context.Context, tokenID uint64, caller string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registry.ClaimPanel(ctx, tokenID, caller)
}

// SetDefaults replaces the process-wide auction defaults. Owner-gated.
// Applies only to auctions created after the change.
func (h *House) SetDefaults(ctx context.Context, caller string, d gallery.Defaults) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOwner(caller); err != nil {
		return err
	}

	return h.auctions.SetDefaults(ctx, d)
}

// Defaults returns the current auction defaults. Unrestricted read.
func (h *House) Defaults(ctx context.Context) (gallery.Defaults, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.CurrentDefaults(ctx)
}

// GetPage retrieves a page by number. Pure read.
func (h *House) GetPage(ctx context.Context, pageNumber uint64) (*gallery.Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registry.GetPage(ctx, pageNumber)
}

// GetAuction retrieves an auction by ID. Pure read.
func (h *House) GetAuction(ctx context.Context, auctionID uint64) (*gallery.Auction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.Get(ctx, auctionID)
}

// PanelPageNumber returns the page owning the panel. Pure read.
func (h *House) PanelPageNumber(ctx context.Context, tokenID uint64) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registry.PanelPageNumber(ctx, tokenID)
}

// PanelAuctionID returns the auction selling the panel. Pure read.
func (h *House) PanelAuctionID(ctx context.Context, tokenID uint64) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registry.PanelAuctionID(ctx, tokenID)
}

// TokenURI returns "{page base URI}/{token ID}" for the panel. Pure read.
func (h *House) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registry.TokenURI(ctx, tokenID)
}

// IsPageSold reports whether every panel of the page is claimed. Pure read.
func (h *House) IsPageSold(ctx context.Context, pageNumber uint64) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registry.IsPageSold(ctx, pageNumber)
}

// CheckBid returns the bidder's cumulative escrowed bid. Pure read.
func (h *House) CheckBid(ctx context.Context, auctionID uint64, bidder string) (*big.Int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.CheckBid(ctx, auctionID, bidder)
}

// TimeRemaining returns the time until the auction deadline, floored at zero.
// Pure read against a single authoritative clock sample.
func (h *House) TimeRemaining(ctx context.Context, auctionID uint64) (time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.auctions.TimeRemaining(ctx, auctionID, h.clock.Now())
}
