package display

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/mural/pkg/gallery"
)

func TestFormatPagesTable(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		var buf bytes.Buffer
		count := FormatPagesTable(&buf, nil, "gallery-1")

		assert.Equal(t, 0, count)
		assert.Contains(t, buf.String(), "No pages found for instance 'gallery-1'")
	})

	t.Run("renders one row per page", func(t *testing.T) {
		pages := []*gallery.Page{
			{PageNumber: 1, PanelIDs: []uint64{1, 2, 3}, BaseURI: "ipfs://hidden", Revealed: false},
			{PageNumber: 2, PanelIDs: []uint64{4, 5}, BaseURI: "ipfs://final", Revealed: true},
		}

		var buf bytes.Buffer
		count := FormatPagesTable(&buf, pages, "gallery-1")
		out := buf.String()

		assert.Equal(t, 2, count)
		assert.Contains(t, out, "PAGE")
		assert.Contains(t, out, "REVEALED")
		assert.Contains(t, out, "ipfs://hidden")
		assert.Contains(t, out, "yes")
		assert.Contains(t, out, "2 pages found")
	})

	t.Run("singular count message", func(t *testing.T) {
		pages := []*gallery.Page{{PageNumber: 1, PanelIDs: []uint64{1}, BaseURI: "ipfs://x"}}

		var buf bytes.Buffer
		FormatPagesTable(&buf, pages, "gallery-1")
		assert.Contains(t, buf.String(), "1 page found")
	})

	t.Run("truncates long locators", func(t *testing.T) {
		long := "ipfs://" + strings.Repeat("a", 60)
		pages := []*gallery.Page{{PageNumber: 1, PanelIDs: []uint64{1}, BaseURI: long}}

		var buf bytes.Buffer
		FormatPagesTable(&buf, pages, "gallery-1")
		assert.Contains(t, buf.String(), "...")
		assert.NotContains(t, buf.String(), long)
	})
}

func TestFormatAuctionSummary(t *testing.T) {
	a := &gallery.Auction{
		ID:                  3,
		PanelID:             7,
		State:               gallery.AuctionStateActive,
		StartTime:           1700000000,
		EndTime:             1700086400,
		StartingValue:       big.NewInt(100),
		MinimumBidIncrement: big.NewInt(10),
		HighestBid:          big.NewInt(0),
		HighestBidder:       gallery.NoBidder,
	}

	t.Run("no bids yet", func(t *testing.T) {
		var buf bytes.Buffer
		FormatAuctionSummary(&buf, a, time.Unix(1700000000, 0))
		out := buf.String()

		assert.Contains(t, out, "Auction 3 (panel 7)")
		assert.Contains(t, out, "state:          active")
		assert.Contains(t, out, "remaining:      24h0m0s")
		assert.Contains(t, out, "no bids yet")
	})

	t.Run("with a leader", func(t *testing.T) {
		led := *a
		led.HighestBid = big.NewInt(150)
		led.HighestBidder = "0xAlice"

		var buf bytes.Buffer
		FormatAuctionSummary(&buf, &led, time.Unix(1700090000, 0))
		out := buf.String()

		assert.Contains(t, out, "150 by 0xAlice")
		assert.Contains(t, out, "remaining:      expired")
	})
}

func TestFormatBalancesTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		FormatBalancesTable(&buf, 5, nil)
		assert.Contains(t, buf.String(), "No escrow entries for auction 5")
	})

	t.Run("sorted by bidder", func(t *testing.T) {
		balances := map[string]*big.Int{
			"0xCarol": big.NewInt(300),
			"0xAlice": big.NewInt(100),
		}

		var buf bytes.Buffer
		FormatBalancesTable(&buf, 5, balances)
		out := buf.String()

		assert.Less(t, strings.Index(out, "0xAlice"), strings.Index(out, "0xCarol"))
		assert.Contains(t, out, "300")
	})
}

func TestFormatJSON(t *testing.T) {
	page := &gallery.Page{PageNumber: 1, PanelIDs: []uint64{1, 2}, BaseURI: "ipfs://hidden"}

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, page))

	assert.Contains(t, buf.String(), "\"page_number\": 1")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestFormatJSONL(t *testing.T) {
	pages := []*gallery.Page{
		{PageNumber: 1, PanelIDs: []uint64{1}, BaseURI: "ipfs://a"},
		{PageNumber: 2, PanelIDs: []uint64{2}, BaseURI: "ipfs://b"},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatJSONL(&buf, pages))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "\"page_number\":1")
}
