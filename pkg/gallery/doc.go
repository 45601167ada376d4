// Package gallery provides type-safe Go definitions and Redis schema patterns
// for the Mural gallery state.
//
// # Overview
//
// The gallery is the shared state system where all Mural components (the
// auction house core, CLI, watchers and indexers) interact via well-defined
// data structures stored in Redis. Redis is the store of record; the auction
// house core serializes every mutation, so the client here stays a thin,
// validated mapping between Go structs and Redis hashes.
//
// # Core Concepts
//
// Panels are the sellable units: uniquely numbered items with registry-wide
// sequential token IDs. Pages are ordered groups of panels sharing a reveal
// lifecycle - a page's locator stays obscured until every panel in it has
// been claimed, then switches to its permanent form exactly once.
//
// Auctions sell exactly one panel each. A bidder's escrowed value accumulates
// across bids; the current leader's funds stay locked while they lead.
//
// Notifications are state-change events published to external observers after
// the corresponding mutation commits. The core never consumes them.
//
// # Multi-Instance Support
//
// All Redis keys and Pub/Sub channels are namespaced by instance name to
// enable multiple Mural instances to safely coexist on a single Redis server
// without interference. Each instance has complete isolation of its data and
// events.
//
// # Usage Example
//
//	import "github.com/dyluth/mural/pkg/gallery"
//
//	client, err := gallery.NewClient(&redis.Options{Addr: "localhost:6379"}, "main")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	auction, err := client.GetAuction(ctx, 7)
//	if gallery.IsNotFound(err) {
//		// auction 7 has not been created
//	}
//
//	sub, err := client.SubscribeNotifications(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sub.Close()
//	for n := range sub.Events() {
//		fmt.Println(n.Type)
//	}
package gallery
