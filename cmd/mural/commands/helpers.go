package commands

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/dyluth/mural/internal/config"
	"github.com/dyluth/mural/internal/house"
	"github.com/dyluth/mural/pkg/gallery"
)

// openHouse loads mural.yml, connects the gallery client and builds the
// auction house, seeding configured defaults into a fresh instance.
// The caller must Close() the returned client.
func openHouse(ctx context.Context) (*house.House, *gallery.Client, *config.MuralConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	opts, err := cfg.RedisOptions()
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := gallery.NewClient(opts, cfg.Instance)
	if err != nil {
		return nil, nil, nil, err
	}

	h, err := house.New(client, cfg.Owner, gallery.SystemClock{})
	if err != nil {
		client.Close()
		return nil, nil, nil, err
	}

	if cfg.Defaults != nil {
		d, err := cfg.Defaults.AuctionDefaults()
		if err != nil {
			client.Close()
			return nil, nil, nil, err
		}
		if err := h.Bootstrap(ctx, d); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("failed to seed auction defaults: %w", err)
		}
	}

	return h, client, cfg, nil
}

// parseID parses a positional numeric identifier (page, auction or token).
func parseID(arg, what string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %q (expected a positive integer)", what, arg)
	}
	return id, nil
}

// parseAmountFlag parses a wei-scale decimal amount from a flag value.
func parseAmountFlag(value, flag string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("--%s is required", flag)
	}
	amount, err := gallery.ParseAmount(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return amount, nil
}
