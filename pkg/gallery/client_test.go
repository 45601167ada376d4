package gallery

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a test client connected to a miniredis instance
func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

// Test client construction and basic operations
func TestNewClient(t *testing.T) {
	t.Run("creates client successfully", func(t *testing.T) {
		client, _ := setupTestClient(t)
		assert.NotNil(t, client)
		assert.Equal(t, "test-instance", client.InstanceName())
	})

	t.Run("rejects empty instance name", func(t *testing.T) {
		_, err := NewClient(&redis.Options{Addr: "localhost:6379"}, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "instance name cannot be empty")
	})
}

func TestPing(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	err := client.Ping(ctx)
	assert.NoError(t, err)
}

// Auction CRUD tests
func TestPutAndGetAuction(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("writes and reads back an auction", func(t *testing.T) {
		auction := validAuction()

		err := client.PutAuction(ctx, auction)
		require.NoError(t, err)

		retrieved, err := client.GetAuction(ctx, auction.ID)
		require.NoError(t, err)
		assert.Equal(t, auction.ID, retrieved.ID)
		assert.Equal(t, auction.State, retrieved.State)
		assert.Zero(t, auction.StartingValue.Cmp(retrieved.StartingValue))
	})

	t.Run("rejects invalid auction", func(t *testing.T) {
		auction := validAuction()
		auction.HighestBid = big.NewInt(10) // bid without bidder

		err := client.PutAuction(ctx, auction)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid auction")
	})

	t.Run("returns not-found for missing auction", func(t *testing.T) {
		_, err := client.GetAuction(ctx, 9999)
		assert.True(t, IsNotFound(err))
	})
}

// Escrow hash tests
func TestEscrowBalances(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("missing entry reads as zero", func(t *testing.T) {
		balance, err := client.EscrowBalance(ctx, 1, "0xAlice")
		require.NoError(t, err)
		assert.Zero(t, balance.Sign())
	})

	t.Run("set then read", func(t *testing.T) {
		amount, _ := new(big.Int).SetString("2000000000000000000", 10)
		err := client.SetEscrowBalance(ctx, 1, "0xAlice", amount)
		require.NoError(t, err)

		balance, err := client.EscrowBalance(ctx, 1, "0xAlice")
		require.NoError(t, err)
		assert.Zero(t, amount.Cmp(balance))
	})

	t.Run("clear zeroes the entry", func(t *testing.T) {
		err := client.ClearEscrowBalance(ctx, 1, "0xAlice")
		require.NoError(t, err)

		balance, err := client.EscrowBalance(ctx, 1, "0xAlice")
		require.NoError(t, err)
		assert.Zero(t, balance.Sign())
	})

	t.Run("lists all entries per auction", func(t *testing.T) {
		require.NoError(t, client.SetEscrowBalance(ctx, 2, "0xAlice", big.NewInt(100)))
		require.NoError(t, client.SetEscrowBalance(ctx, 2, "0xBob", big.NewInt(200)))

		balances, err := client.EscrowBalances(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, balances, 2)
		assert.Zero(t, balances["0xBob"].Cmp(big.NewInt(200)))
	})

	t.Run("rejects empty bidder", func(t *testing.T) {
		err := client.SetEscrowBalance(ctx, 1, "", big.NewInt(1))
		assert.Error(t, err)
	})
}

// Counter allocation tests
func TestCounters(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("page numbers start at 1 and increase", func(t *testing.T) {
		first, err := client.NextPageNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), first)

		second, err := client.NextPageNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), second)
	})

	t.Run("panel tokens continue across calls", func(t *testing.T) {
		a, err := client.NextPanelTokenID(ctx)
		require.NoError(t, err)
		b, err := client.NextPanelTokenID(ctx)
		require.NoError(t, err)
		assert.Equal(t, a+1, b)
	})

	t.Run("page count tracks the allocator", func(t *testing.T) {
		count, err := client.PageCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
	})
}

// Page graph creation tests
func TestCreatePageGraph(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	page := &Page{PageNumber: 1, PanelIDs: []uint64{1, 2}, BaseURI: "ipfs://hidden"}
	panels := []*Panel{
		{TokenID: 1, PageNumber: 1, AuctionID: 1},
		{TokenID: 2, PageNumber: 1, AuctionID: 2},
	}
	auctions := []*Auction{}
	for i := uint64(1); i <= 2; i++ {
		a := validAuction()
		a.ID = i
		a.PanelID = i
		auctions = append(auctions, a)
	}

	t.Run("writes page, panels and auctions together", func(t *testing.T) {
		err := client.CreatePageGraph(ctx, page, panels, auctions)
		require.NoError(t, err)

		gotPage, err := client.GetPage(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2}, gotPage.PanelIDs)

		gotPanel, err := client.GetPanel(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), gotPanel.AuctionID)

		gotAuction, err := client.GetAuction(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, AuctionStateActive, gotAuction.State)
	})

	t.Run("rejects graph with invalid panel", func(t *testing.T) {
		bad := []*Panel{{TokenID: 0, PageNumber: 1, AuctionID: 1}}
		err := client.CreatePageGraph(ctx, page, bad, nil)
		assert.Error(t, err)
	})
}

// Defaults record tests
func TestDefaultsRecord(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("missing record reads as not-found", func(t *testing.T) {
		_, err := client.GetDefaults(ctx)
		assert.True(t, IsNotFound(err))
	})

	t.Run("put then get", func(t *testing.T) {
		d := &Defaults{
			Duration:            30 * time.Second,
			StartingValue:       big.NewInt(2e15),
			MinimumBidIncrement: big.NewInt(0),
		}
		require.NoError(t, client.PutDefaults(ctx, d))

		got, err := client.GetDefaults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, got.Duration)
	})
}

// Notification Pub/Sub tests
func TestNotificationPubSub(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("subscriber receives published notification", func(t *testing.T) {
		sub, err := client.SubscribeNotifications(ctx)
		require.NoError(t, err)
		defer sub.Close()

		// Give the subscription goroutine time to attach
		time.Sleep(50 * time.Millisecond)

		n := NewNotification(NotificationBidRaised, time.Now())
		n.AuctionID = 5
		n.Bidder = "0xAlice"
		n.Amount = "2000000000000000000"
		require.NoError(t, client.PublishNotification(ctx, n))

		select {
		case got := <-sub.Events():
			assert.Equal(t, NotificationBidRaised, got.Type)
			assert.Equal(t, uint64(5), got.AuctionID)
			assert.Equal(t, "2000000000000000000", got.Amount)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for notification")
		}
	})

	t.Run("rejects invalid notification", func(t *testing.T) {
		err := client.PublishNotification(ctx, &Notification{ID: "nope", Type: NotificationBidRaised, AtMs: 1})
		assert.Error(t, err)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		sub, err := client.SubscribeNotifications(ctx)
		require.NoError(t, err)

		assert.NoError(t, sub.Close())
		assert.NoError(t, sub.Close())
	})
}
