// Package registry implements the panel/page registry: sequential ID
// assignment, the page-to-panel-to-auction mapping, reveal gating and the
// one-shot claim transfer.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/mural/internal/auction"
	"github.com/dyluth/mural/pkg/gallery"
)

// Registry owns the page and panel records and the mappings between them and
// their auctions. Page numbers and panel token IDs come from monotone
// registry-wide counters; token IDs continue across pages and are never
// reused, even when an operation fails after allocation.
//
// The registry performs no locking; the auction house serializes operations.
type Registry struct {
	store    *gallery.Client
	auctions *auction.Machine
}

// NewRegistry creates a registry over the given store and auction machine.
func NewRegistry(store *gallery.Client, auctions *auction.Machine) *Registry {
	return &Registry{store: store, auctions: auctions}
}

// AddPage creates a page with panelCount panels, one Active auction per
// panel, using the supplied defaults. The page, its panels and their auctions
// are committed as one unit, then a page_added notification is published.
//
// Fails with gallery.ErrInvalidPanelsCount if panelCount is zero or negative.
func (r *Registry) AddPage(ctx context.Context, panelCount int, obscuredBaseURI string, d gallery.Defaults, now time.Time) (*gallery.Page, error) {
	if panelCount <= 0 {
		return nil, gallery.ErrInvalidPanelsCount
	}

	pageNumber, err := r.store.NextPageNumber(ctx)
	if err != nil {
		return nil, err
	}

	panels := make([]*gallery.Panel, 0, panelCount)
	auctions := make([]*gallery.Auction, 0, panelCount)
	panelIDs := make([]uint64, 0, panelCount)

	for i := 0; i < panelCount; i++ {
		tokenID, err := r.store.NextPanelTokenID(ctx)
		if err != nil {
			return nil, err
		}

		a, err := r.auctions.NewAuction(ctx, tokenID, d, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create auction for panel %d: %w", tokenID, err)
		}

		panels = append(panels, &gallery.Panel{
			TokenID:    tokenID,
			PageNumber: pageNumber,
			AuctionID:  a.ID,
		})
		auctions = append(auctions, a)
		panelIDs = append(panelIDs, tokenID)
	}

	page := &gallery.Page{
		PageNumber: pageNumber,
		PanelIDs:   panelIDs,
		BaseURI:    obscuredBaseURI,
	}

	if err := r.store.CreatePageGraph(ctx, page, panels, auctions); err != nil {
		return nil, err
	}

	n := gallery.NewNotification(gallery.NotificationPageAdded, now)
	n.PageNumber = pageNumber
	n.PanelIDs = panelIDs
	if err := r.store.PublishNotification(ctx, n); err != nil {
		return nil, err
	}

	return page, nil
}

// GetPage retrieves a page by number.
// Fails with gallery.ErrPageNotFound if it does not exist.
func (r *Registry) GetPage(ctx context.Context, pageNumber uint64) (*gallery.Page, error) {
	page, err := r.store.GetPage(ctx, pageNumber)
	if gallery.IsNotFound(err) {
		return nil, gallery.ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetPanel retrieves a panel by token ID.
// Fails with gallery.ErrInvalidPanelTokenID if it does not exist.
func (r *Registry) GetPanel(ctx context.Context, tokenID uint64) (*gallery.Panel, error) {
	panel, err := r.store.GetPanel(ctx, tokenID)
	if gallery.IsNotFound(err) {
		return nil, gallery.ErrInvalidPanelTokenID
	}
	if err != nil {
		return nil, err
	}
	return panel, nil
}

// PanelPageNumber returns the page number owning the panel. Pure lookup.
func (r *Registry) PanelPageNumber(ctx context.Context, tokenID uint64) (uint64, error) {
	panel, err := r.GetPanel(ctx, tokenID)
	if err != nil {
		return 0, err
	}
	return panel.PageNumber, nil
}

// PanelAuctionID returns the auction selling the panel. Pure lookup.
// The mapping is explicit; equality with the token ID is never assumed.
func (r *Registry) PanelAuctionID(ctx context.Context, tokenID uint64) (uint64, error) {
	panel, err := r.GetPanel(ctx, tokenID)
	if err != nil {
		return 0, err
	}
	return panel.AuctionID, nil
}

// TokenURI returns "{page base URI}/{token ID}" for the panel.
// Before reveal this locates the obscured form, after reveal the permanent one.
func (r *Registry) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	panel, err := r.GetPanel(ctx, tokenID)
	if err != nil {
		return "", err
	}

	page, err := r.GetPage(ctx, panel.PageNumber)
	if err != nil {
		return "", err
	}

	return tokenURI(page.BaseURI, tokenID), nil
}

// IsPageSold reports whether every panel of the page has an owner.
func (r *Registry) IsPageSold(ctx context.Context, pageNumber uint64) (bool, error) {
	page, err := r.GetPage(ctx, pageNumber)
	if err != nil {
		return false, err
	}

	for _, tokenID := range page.PanelIDs {
		panel, err := r.GetPanel(ctx, tokenID)
		if err != nil {
			return false, err
		}
		if !panel.Claimed() {
			return false, nil
		}
	}

	return true, nil
}

// RevealPage switches the page's locator to its permanent revealed form.
// Irreversible and executable at most once per page: gated on every panel
// having been claimed, with the first unsold panel named in the error.
//
// On success it publishes one permanent_uri notification per panel followed
// by a page_revealed notification, all after the mutation commits.
func (r *Registry) RevealPage(ctx context.Context, pageNumber uint64, revealedBaseURI string, now time.Time) error {
	page, err := r.GetPage(ctx, pageNumber)
	if err != nil {
		return err
	}

	if page.Revealed {
		return gallery.ErrPageAlreadyRevealed
	}

	for _, tokenID := range page.PanelIDs {
		panel, err := r.GetPanel(ctx, tokenID)
		if err != nil {
			return err
		}
		if !panel.Claimed() {
			return &gallery.PanelNotSoldError{TokenID: tokenID}
		}
	}

	page.BaseURI = revealedBaseURI
	page.Revealed = true
	if err := r.store.PutPage(ctx, page); err != nil {
		return err
	}

	for _, tokenID := range page.PanelIDs {
		n := gallery.NewNotification(gallery.NotificationPermanentURI, now)
		n.TokenURI = tokenURI(revealedBaseURI, tokenID)
		n.TokenID = tokenID
		if err := r.store.PublishNotification(ctx, n); err != nil {
			return err
		}
	}

	n := gallery.NewNotification(gallery.NotificationPageRevealed, now)
	n.PageNumber = pageNumber
	n.PanelIDs = page.PanelIDs
	return r.store.PublishNotification(ctx, n)
}

// ClaimPanel transfers the panel's ownership to its auction's winner.
// This is the sole path by which panel ownership is established, and it may
// succeed exactly once per panel.
func (r *Registry) ClaimPanel(ctx context.Context, tokenID uint64, caller string) error {
	if caller == "" {
		return fmt.Errorf("caller cannot be empty")
	}

	panel, err := r.GetPanel(ctx, tokenID)
	if err != nil {
		return err
	}

	a, err := r.auctions.Get(ctx, panel.AuctionID)
	if err != nil {
		return err
	}

	if a.State != gallery.AuctionStateEnded {
		return &gallery.PanelAuctionNotEndedError{AuctionID: a.ID}
	}

	if caller != a.HighestBidder {
		return &gallery.NotPanelAuctionWinnerError{AuctionID: a.ID}
	}

	if panel.Claimed() {
		return gallery.ErrPanelAlreadyClaimed
	}

	panel.Owner = caller
	return r.store.PutPanel(ctx, panel)
}

func tokenURI(baseURI string, tokenID uint64) string {
	return fmt.Sprintf("%s/%d", baseURI, tokenID)
}
