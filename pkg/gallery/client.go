package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped Redis operations for the gallery state.
// All keys and channels are automatically namespaced with the instance name.
// The client is thread-safe and can be used concurrently from multiple goroutines;
// cross-entity consistency is the responsibility of the auction house core,
// which serializes mutations.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a new gallery client for the specified instance.
// The client automatically namespaces all keys and channels with the instance name.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - instanceName: Mural instance identifier (must not be empty)
//
// Returns an error if instanceName is empty.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
// After calling Close(), the client should not be used.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
// Returns an error if Redis is not reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// InstanceName returns the instance this client is scoped to.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// PutAuction writes an auction to Redis as a full hash replacement.
// Validates the auction before writing.
func (c *Client) PutAuction(ctx context.Context, a *Auction) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid auction: %w", err)
	}

	hash, err := AuctionToHash(a)
	if err != nil {
		return fmt.Errorf("failed to serialize auction: %w", err)
	}

	key := AuctionKey(c.instanceName, a.ID)
	if err := c.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to write auction to Redis: %w", err)
	}

	return nil
}

// GetAuction retrieves an auction by ID.
// Returns (nil, redis.Nil) if the auction doesn't exist.
// Use IsNotFound() to check for not-found errors.
func (c *Client) GetAuction(ctx context.Context, auctionID uint64) (*Auction, error) {
	key := AuctionKey(c.instanceName, auctionID)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read auction from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	auction, err := HashToAuction(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize auction: %w", err)
	}

	return auction, nil
}

// GetPage retrieves a page by page number.
// Returns (nil, redis.Nil) if the page doesn't exist.
func (c *Client) GetPage(ctx context.Context, pageNumber uint64) (*Page, error) {
	key := PageKey(c.instanceName, pageNumber)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read page from Redis: %w", err)
	}

	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	page, err := HashToPage(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize page: %w", err)
	}

	return page, nil
}

// PutPage writes a page to Redis as a full hash replacement.
// Used by the registry to persist the one-time reveal mutation.
func (c *Client) PutPage(ctx context.Context, p *Page) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid page: %w", err)
	}

	hash, err := PageToHash(p)
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}

	key := PageKey(c.instanceName, p.PageNumber)
	if err := c.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to write page to Redis: %w", err)
	}

	return nil
}

// GetPanel retrieves a panel by token ID.
// Returns (nil, redis.Nil) if the panel doesn't exist.
func (c *Client) GetPanel(ctx context.Context, tokenID uint64) (*Panel, error) {
	key := PanelKey(c.instanceName, tokenID)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read panel from Redis: %w", err)
	}

	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	panel, err := HashToPanel(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize panel: %w", err)
	}

	return panel, nil
}

// PutPanel writes a panel to Redis as a full hash replacement.
// Used by the registry to persist the one-shot ownership transfer.
func (c *Client) PutPanel(ctx context.Context, p *Panel) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid panel: %w", err)
	}

	key := PanelKey(c.instanceName, p.TokenID)
	if err := c.rdb.HSet(ctx, key, PanelToHash(p)).Err(); err != nil {
		return fmt.Errorf("failed to write panel to Redis: %w", err)
	}

	return nil
}

// CreatePageGraph writes a page together with its panels and their auctions
// in a single Redis transaction, so no reader observes a partially created
// page. Every entity is validated before any write is queued.
func (c *Client) CreatePageGraph(ctx context.Context, page *Page, panels []*Panel, auctions []*Auction) error {
	if err := page.Validate(); err != nil {
		return fmt.Errorf("invalid page: %w", err)
	}
	for _, p := range panels {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid panel %d: %w", p.TokenID, err)
		}
	}
	for _, a := range auctions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid auction %d: %w", a.ID, err)
		}
	}

	pageHash, err := PageToHash(page)
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}

	auctionHashes := make(map[uint64]map[string]interface{}, len(auctions))
	for _, a := range auctions {
		hash, err := AuctionToHash(a)
		if err != nil {
			return fmt.Errorf("failed to serialize auction %d: %w", a.ID, err)
		}
		auctionHashes[a.ID] = hash
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, PageKey(c.instanceName, page.PageNumber), pageHash)
		for _, p := range panels {
			pipe.HSet(ctx, PanelKey(c.instanceName, p.TokenID), PanelToHash(p))
		}
		for _, a := range auctions {
			pipe.HSet(ctx, AuctionKey(c.instanceName, a.ID), auctionHashes[a.ID])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write page graph to Redis: %w", err)
	}

	return nil
}

// EscrowBalance reads a bidder's cumulative escrowed bid in an auction.
// Returns zero (not an error) if no entry exists.
func (c *Client) EscrowBalance(ctx context.Context, auctionID uint64, bidder string) (*big.Int, error) {
	key := EscrowKey(c.instanceName, auctionID)

	raw, err := c.rdb.HGet(ctx, key, bidder).Result()
	if err == redis.Nil {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read escrow balance from Redis: %w", err)
	}

	amount, err := ParseAmount(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse escrow balance: %w", err)
	}

	return amount, nil
}

// SetEscrowBalance writes a bidder's cumulative escrowed bid.
func (c *Client) SetEscrowBalance(ctx context.Context, auctionID uint64, bidder string, amount *big.Int) error {
	if bidder == "" {
		return fmt.Errorf("bidder cannot be empty")
	}
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("escrow amount must be non-negative")
	}

	key := EscrowKey(c.instanceName, auctionID)
	if err := c.rdb.HSet(ctx, key, bidder, amount.String()).Err(); err != nil {
		return fmt.Errorf("failed to write escrow balance to Redis: %w", err)
	}

	return nil
}

// ClearEscrowBalance removes a bidder's escrow entry for an auction.
func (c *Client) ClearEscrowBalance(ctx context.Context, auctionID uint64, bidder string) error {
	key := EscrowKey(c.instanceName, auctionID)
	if err := c.rdb.HDel(ctx, key, bidder).Err(); err != nil {
		return fmt.Errorf("failed to clear escrow balance in Redis: %w", err)
	}

	return nil
}

// EscrowBalances retrieves every escrow entry for an auction as a map of
// bidder address to cumulative bid. Returns an empty map if none exist.
func (c *Client) EscrowBalances(ctx context.Context, auctionID uint64) (map[string]*big.Int, error) {
	key := EscrowKey(c.instanceName, auctionID)

	raw, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read escrow balances from Redis: %w", err)
	}

	balances := make(map[string]*big.Int, len(raw))
	for bidder, s := range raw {
		amount, err := ParseAmount(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse escrow balance for %s: %w", bidder, err)
		}
		balances[bidder] = amount
	}

	return balances, nil
}

// NextPageNumber allocates the next sequential page number.
// Counters are monotone and never reused, even across failed operations.
func (c *Client) NextPageNumber(ctx context.Context) (uint64, error) {
	n, err := c.rdb.Incr(ctx, PageCounterKey(c.instanceName)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate page number: %w", err)
	}
	return uint64(n), nil
}

// NextPanelTokenID allocates the next registry-wide panel token ID.
func (c *Client) NextPanelTokenID(ctx context.Context) (uint64, error) {
	n, err := c.rdb.Incr(ctx, PanelCounterKey(c.instanceName)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate panel token ID: %w", err)
	}
	return uint64(n), nil
}

// NextAuctionID allocates the next sequential auction ID.
func (c *Client) NextAuctionID(ctx context.Context) (uint64, error) {
	n, err := c.rdb.Incr(ctx, AuctionCounterKey(c.instanceName)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate auction ID: %w", err)
	}
	return uint64(n), nil
}

// PageCount returns the number of pages allocated so far (the current value
// of the page counter). Returns 0 for a fresh instance.
func (c *Client) PageCount(ctx context.Context) (uint64, error) {
	raw, err := c.rdb.Get(ctx, PageCounterKey(c.instanceName)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read page counter: %w", err)
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid page counter value: %w", err)
	}
	return n, nil
}

// GetDefaults retrieves the auction defaults record.
// Returns (nil, redis.Nil) if the record has not been seeded.
func (c *Client) GetDefaults(ctx context.Context) (*Defaults, error) {
	key := DefaultsKey(c.instanceName)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults from Redis: %w", err)
	}

	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	defaults, err := HashToDefaults(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize defaults: %w", err)
	}

	return defaults, nil
}

// PutDefaults writes the auction defaults record as a full hash replacement.
// No history is retained; only the latest defaults apply to auctions created
// after the change.
func (c *Client) PutDefaults(ctx context.Context, d *Defaults) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}

	hash, err := DefaultsToHash(d)
	if err != nil {
		return fmt.Errorf("failed to serialize defaults: %w", err)
	}

	key := DefaultsKey(c.instanceName)
	if err := c.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to write defaults to Redis: %w", err)
	}

	return nil
}

// PublishNotification publishes a state-change notification to the instance
// channel. Callers publish only after the corresponding mutation committed.
func (c *Client) PublishNotification(ctx context.Context, n *Notification) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	channel := NotificationEventsChannel(c.instanceName)
	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// NotificationSubscription represents an active Pub/Sub subscription to
// state-change notifications. Caller must call Close() when done to clean up
// resources.
type NotificationSubscription struct {
	events <-chan *Notification
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of notifications.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *NotificationSubscription) Events() <-chan *Notification {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling failures and other non-fatal issues.
// The subscription continues after errors - messages are skipped.
func (s *NotificationSubscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *NotificationSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeNotifications subscribes to state-change notifications for this
// instance. Returns a NotificationSubscription that delivers full
// notification objects. Caller must call subscription.Close() when done.
// Context cancellation also stops the subscription.
//
// Events are delivered on a buffered channel (size 10) to prevent blocking.
// If the subscriber is too slow, events may be dropped by Redis Pub/Sub
// (at-most-once delivery).
func (c *Client) SubscribeNotifications(ctx context.Context) (*NotificationSubscription, error) {
	channel := NotificationEventsChannel(c.instanceName)
	pubsub := c.rdb.Subscribe(ctx, channel)

	eventsChan := make(chan *Notification, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var n Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal notification: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &n:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &NotificationSubscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
