package registry

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/mural/internal/auction"
	"github.com/dyluth/mural/internal/escrow"
	"github.com/dyluth/mural/pkg/gallery"
)

func setupRegistry(t *testing.T) (*Registry, *auction.Machine) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := gallery.NewClient(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	machine := auction.NewMachine(client, escrow.NewLedger(client))
	return NewRegistry(client, machine), machine
}

func testDefaults() gallery.Defaults {
	return gallery.Defaults{
		Duration:            24 * time.Hour,
		StartingValue:       big.NewInt(100),
		MinimumBidIncrement: big.NewInt(10),
	}
}

// winPanel ends the panel's auction with the given winner and claims it.
func winPanel(t *testing.T, r *Registry, m *auction.Machine, tokenID uint64, winner string, start time.Time) {
	t.Helper()
	ctx := context.Background()

	auctionID, err := r.PanelAuctionID(ctx, tokenID)
	require.NoError(t, err)

	_, err = m.PlaceBid(ctx, auctionID, winner, big.NewInt(100), start.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, m.End(ctx, auctionID, start.Add(25*time.Hour)))
	require.NoError(t, r.ClaimPanel(ctx, tokenID, winner))
}

func TestAddPage(t *testing.T) {
	r, _ := setupRegistry(t)
	ctx := context.Background()
	start := time.Unix(1700000000, 0)

	t.Run("rejects non-positive panel counts", func(t *testing.T) {
		_, err := r.AddPage(ctx, 0, "ipfs://hidden", testDefaults(), start)
		assert.ErrorIs(t, err, gallery.ErrInvalidPanelsCount)

		_, err = r.AddPage(ctx, -3, "ipfs://hidden", testDefaults(), start)
		assert.ErrorIs(t, err, gallery.ErrInvalidPanelsCount)
	})

	t.Run("creates page, panels and auctions", func(t *testing.T) {
		page, err := r.AddPage(ctx, 3, "ipfs://hidden", testDefaults(), start)
		require.NoError(t, err)

		assert.Equal(t, uint64(1), page.PageNumber)
		assert.Equal(t, []uint64{1, 2, 3}, page.PanelIDs)
		assert.False(t, page.Revealed)

		for _, tokenID := range page.PanelIDs {
			panel, err := r.GetPanel(ctx, tokenID)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), panel.PageNumber)
			assert.False(t, panel.Claimed())
		}
	})

	t.Run("token IDs continue across pages", func(t *testing.T) {
		page, err := r.AddPage(ctx, 2, "ipfs://hidden2", testDefaults(), start)
		require.NoError(t, err)

		assert.Equal(t, uint64(2), page.PageNumber)
		assert.Equal(t, []uint64{4, 5}, page.PanelIDs)
	})
}

func TestLookups(t *testing.T) {
	r, _ := setupRegistry(t)
	ctx := context.Background()
	start := time.Unix(1700000000, 0)

	page, err := r.AddPage(ctx, 2, "ipfs://hidden", testDefaults(), start)
	require.NoError(t, err)

	t.Run("page not found", func(t *testing.T) {
		_, err := r.GetPage(ctx, 99)
		assert.ErrorIs(t, err, gallery.ErrPageNotFound)
	})

	t.Run("panel not found", func(t *testing.T) {
		_, err := r.GetPanel(ctx, 99)
		assert.ErrorIs(t, err, gallery.ErrInvalidPanelTokenID)
	})

	t.Run("panel page number", func(t *testing.T) {
		pageNumber, err := r.PanelPageNumber(ctx, page.PanelIDs[1])
		require.NoError(t, err)
		assert.Equal(t, page.PageNumber, pageNumber)
	})

	t.Run("panel auction ID", func(t *testing.T) {
		auctionID, err := r.PanelAuctionID(ctx, page.PanelIDs[0])
		require.NoError(t, err)
		assert.NotZero(t, auctionID)
	})

	t.Run("token URI uses the page base", func(t *testing.T) {
		uri, err := r.TokenURI(ctx, page.PanelIDs[0])
		require.NoError(t, err)
		assert.Equal(t, "ipfs://hidden/1", uri)
	})
}

func TestClaimPanel(t *testing.T) {
	r, m := setupRegistry(t)
	ctx := context.Background()
	start := time.Unix(1700000000, 0)

	page, err := r.AddPage(ctx, 1, "ipfs://hidden", testDefaults(), start)
	require.NoError(t, err)
	tokenID := page.PanelIDs[0]

	auctionID, err := r.PanelAuctionID(ctx, tokenID)
	require.NoError(t, err)

	t.Run("unknown panel", func(t *testing.T) {
		err := r.ClaimPanel(ctx, 99, "0xAlice")
		assert.ErrorIs(t, err, gallery.ErrInvalidPanelTokenID)
	})

	t.Run("auction still running", func(t *testing.T) {
		err := r.ClaimPanel(ctx, tokenID, "0xAlice")
		var notEnded *gallery.PanelAuctionNotEndedError
		require.True(t, errors.As(err, &notEnded))
		assert.Equal(t, auctionID, notEnded.AuctionID)
	})

	t.Run("only the winner can claim", func(t *testing.T) {
		_, err := m.PlaceBid(ctx, auctionID, "0xAlice", big.NewInt(100), start.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, m.End(ctx, auctionID, start.Add(25*time.Hour)))

		err = r.ClaimPanel(ctx, tokenID, "0xBob")
		var notWinner *gallery.NotPanelAuctionWinnerError
		require.True(t, errors.As(err, &notWinner))
		assert.Equal(t, auctionID, notWinner.AuctionID)
	})

	t.Run("winner claims once", func(t *testing.T) {
		require.NoError(t, r.ClaimPanel(ctx, tokenID, "0xAlice"))

		panel, err := r.GetPanel(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, "0xAlice", panel.Owner)

		err = r.ClaimPanel(ctx, tokenID, "0xAlice")
		assert.ErrorIs(t, err, gallery.ErrPanelAlreadyClaimed)
	})
}

func TestIsPageSold(t *testing.T) {
	r, m := setupRegistry(t)
	ctx := context.Background()
	start := time.Unix(1700000000, 0)

	page, err := r.AddPage(ctx, 2, "ipfs://hidden", testDefaults(), start)
	require.NoError(t, err)

	t.Run("fresh page is unsold", func(t *testing.T) {
		sold, err := r.IsPageSold(ctx, page.PageNumber)
		require.NoError(t, err)
		assert.False(t, sold)
	})

	t.Run("partially claimed page is unsold", func(t *testing.T) {
		winPanel(t, r, m, page.PanelIDs[0], "0xAlice", start)

		sold, err := r.IsPageSold(ctx, page.PageNumber)
		require.NoError(t, err)
		assert.False(t, sold)
	})

	t.Run("fully claimed page is sold", func(t *testing.T) {
		winPanel(t, r, m, page.PanelIDs[1], "0xBob", start)

		sold, err := r.IsPageSold(ctx, page.PageNumber)
		require.NoError(t, err)
		assert.True(t, sold)
	})
}

func TestRevealPage(t *testing.T) {
	r, m := setupRegistry(t)
	ctx := context.Background()
	start := time.Unix(1700000000, 0)

	page, err := r.AddPage(ctx, 2, "ipfs://hidden", testDefaults(), start)
	require.NoError(t, err)

	t.Run("unknown page", func(t *testing.T) {
		err := r.RevealPage(ctx, 99, "ipfs://final", start)
		assert.ErrorIs(t, err, gallery.ErrPageNotFound)
	})

	t.Run("gated on every panel being claimed", func(t *testing.T) {
		err := r.RevealPage(ctx, page.PageNumber, "ipfs://final", start)
		var notSold *gallery.PanelNotSoldError
		require.True(t, errors.As(err, &notSold))
		assert.Equal(t, page.PanelIDs[0], notSold.TokenID)
	})

	t.Run("names the first unsold panel", func(t *testing.T) {
		winPanel(t, r, m, page.PanelIDs[0], "0xAlice", start)

		err := r.RevealPage(ctx, page.PageNumber, "ipfs://final", start)
		var notSold *gallery.PanelNotSoldError
		require.True(t, errors.As(err, &notSold))
		assert.Equal(t, page.PanelIDs[1], notSold.TokenID)
	})

	t.Run("reveals a fully claimed page", func(t *testing.T) {
		winPanel(t, r, m, page.PanelIDs[1], "0xBob", start)

		require.NoError(t, r.RevealPage(ctx, page.PageNumber, "ipfs://final", start))

		got, err := r.GetPage(ctx, page.PageNumber)
		require.NoError(t, err)
		assert.True(t, got.Revealed)
		assert.Equal(t, "ipfs://final", got.BaseURI)

		uri, err := r.TokenURI(ctx, page.PanelIDs[0])
		require.NoError(t, err)
		assert.Equal(t, "ipfs://final/1", uri)
	})

	t.Run("reveal happens at most once", func(t *testing.T) {
		err := r.RevealPage(ctx, page.PageNumber, "ipfs://other", start)
		assert.ErrorIs(t, err, gallery.ErrPageAlreadyRevealed)
	})
}
