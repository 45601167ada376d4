package auction

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/mural/pkg/gallery"
)

func TestDefaultsRegistry(t *testing.T) {
	m, _ := setupMachine(t)
	ctx := context.Background()

	t.Run("unseeded registry reads as not-found", func(t *testing.T) {
		_, err := m.CurrentDefaults(ctx)
		assert.ErrorIs(t, err, gallery.ErrDefaultsNotFound)
	})

	t.Run("seed writes when empty", func(t *testing.T) {
		seeded, err := m.SeedDefaults(ctx, testDefaults())
		require.NoError(t, err)
		assert.True(t, seeded)

		d, err := m.CurrentDefaults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, d.Duration)
	})

	t.Run("seed is a no-op once a record exists", func(t *testing.T) {
		other := testDefaults()
		other.Duration = time.Hour

		seeded, err := m.SeedDefaults(ctx, other)
		require.NoError(t, err)
		assert.False(t, seeded)

		d, err := m.CurrentDefaults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, d.Duration)
	})

	t.Run("set replaces the record", func(t *testing.T) {
		next := gallery.Defaults{
			Duration:            time.Hour,
			StartingValue:       big.NewInt(500),
			MinimumBidIncrement: big.NewInt(0),
		}
		require.NoError(t, m.SetDefaults(ctx, next))

		d, err := m.CurrentDefaults(ctx)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, d.Duration)
		assert.Zero(t, d.StartingValue.Cmp(big.NewInt(500)))
	})

	t.Run("set rejects invalid records", func(t *testing.T) {
		bad := testDefaults()
		bad.Duration = 0
		assert.Error(t, m.SetDefaults(ctx, bad))
	})
}
