package gallery

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced by instance name to enable
// multiple Mural instances to safely coexist on a single Redis server.
//
// Key pattern: mural:{instance_name}:{entity}:{id}
// Channel pattern: mural:{instance_name}:{event_type}_events

// AuctionKey returns the Redis key for an auction.
// Pattern: mural:{instance_name}:auction:{auction_id}
func AuctionKey(instanceName string, auctionID uint64) string {
	return fmt.Sprintf("mural:%s:auction:%d", instanceName, auctionID)
}

// EscrowKey returns the Redis key for an auction's escrow hash.
// The hash maps bidder address to cumulative escrowed bid (decimal string).
// Pattern: mural:{instance_name}:escrow:{auction_id}
func EscrowKey(instanceName string, auctionID uint64) string {
	return fmt.Sprintf("mural:%s:escrow:%d", instanceName, auctionID)
}

// PageKey returns the Redis key for a page.
// Pattern: mural:{instance_name}:page:{page_number}
func PageKey(instanceName string, pageNumber uint64) string {
	return fmt.Sprintf("mural:%s:page:%d", instanceName, pageNumber)
}

// PanelKey returns the Redis key for a panel.
// Pattern: mural:{instance_name}:panel:{token_id}
func PanelKey(instanceName string, tokenID uint64) string {
	return fmt.Sprintf("mural:%s:panel:%d", instanceName, tokenID)
}

// DefaultsKey returns the Redis key for the auction defaults record.
// Pattern: mural:{instance_name}:defaults
func DefaultsKey(instanceName string) string {
	return fmt.Sprintf("mural:%s:defaults", instanceName)
}

// PageCounterKey returns the Redis key for the page number allocator.
// Pattern: mural:{instance_name}:counter:page
func PageCounterKey(instanceName string) string {
	return fmt.Sprintf("mural:%s:counter:page", instanceName)
}

// PanelCounterKey returns the Redis key for the registry-wide panel token
// allocator. Token IDs continue across pages and are never reused, even when
// a page creation fails after allocation.
// Pattern: mural:{instance_name}:counter:panel
func PanelCounterKey(instanceName string) string {
	return fmt.Sprintf("mural:%s:counter:panel", instanceName)
}

// AuctionCounterKey returns the Redis key for the auction ID allocator.
// Pattern: mural:{instance_name}:counter:auction
func AuctionCounterKey(instanceName string) string {
	return fmt.Sprintf("mural:%s:counter:auction", instanceName)
}

// NotificationEventsChannel returns the Pub/Sub channel name for state-change
// notifications observed by watchers and indexers.
// Pattern: mural:{instance_name}:notification_events
func NotificationEventsChannel(instanceName string) string {
	return fmt.Sprintf("mural:%s:notification_events", instanceName)
}
