package auction

import (
	"context"
	"fmt"

	"github.com/dyluth/mural/pkg/gallery"
)

// Auction defaults registry
//
// A single mutable record of (duration, starting value, minimum increment),
// read at the moment each new auction is created. No history is retained and
// changes never retroactively affect existing auctions. Authorization is the
// auction house's concern; the machine only validates and stores.

// CurrentDefaults returns the latest auction defaults.
// Fails with gallery.ErrDefaultsNotFound if the record was never seeded.
func (m *Machine) CurrentDefaults(ctx context.Context) (gallery.Defaults, error) {
	d, err := m.store.GetDefaults(ctx)
	if gallery.IsNotFound(err) {
		return gallery.Defaults{}, gallery.ErrDefaultsNotFound
	}
	if err != nil {
		return gallery.Defaults{}, err
	}
	return *d, nil
}

// SetDefaults replaces the auction defaults record.
func (m *Machine) SetDefaults(ctx context.Context, d gallery.Defaults) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}
	return m.store.PutDefaults(ctx, &d)
}

// SeedDefaults writes the defaults record only if none exists yet.
// Used at startup so a configured bootstrap value never overwrites a record
// that SetDefaults has since changed. Returns true if it seeded.
func (m *Machine) SeedDefaults(ctx context.Context, d gallery.Defaults) (bool, error) {
	_, err := m.store.GetDefaults(ctx)
	if err == nil {
		return false, nil
	}
	if !gallery.IsNotFound(err) {
		return false, err
	}

	if err := m.SetDefaults(ctx, d); err != nil {
		return false, err
	}
	return true, nil
}
