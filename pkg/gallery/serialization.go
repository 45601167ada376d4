package gallery

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// Serialization helpers for converting between Go structs and Redis hashes
//
// Redis stores data as string-to-string maps (hashes). Monetary amounts are
// wei-scale integers that overflow int64 arithmetic, so they travel as
// decimal strings and are handled as big.Int in memory. Array fields are
// JSON-encoded into single hash fields.

// AuctionToHash converts an Auction struct to a Redis hash format.
// Amount fields are encoded as decimal strings.
func AuctionToHash(a *Auction) (map[string]interface{}, error) {
	if a.StartingValue == nil || a.MinimumBidIncrement == nil || a.HighestBid == nil {
		return nil, fmt.Errorf("auction amounts must be non-nil")
	}

	hash := map[string]interface{}{
		"id":                    a.ID,
		"panel_id":              a.PanelID,
		"state":                 string(a.State),
		"start_time":            a.StartTime,
		"end_time":              a.EndTime,
		"starting_value":        a.StartingValue.String(),
		"minimum_bid_increment": a.MinimumBidIncrement.String(),
		"highest_bid":           a.HighestBid.String(),
		"highest_bidder":        a.HighestBidder,
	}

	return hash, nil
}

// HashToAuction converts a Redis hash to an Auction struct.
func HashToAuction(hash map[string]string) (*Auction, error) {
	id, err := strconv.ParseUint(hash["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id field: %w", err)
	}

	panelID, err := strconv.ParseUint(hash["panel_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid panel_id field: %w", err)
	}

	startTime, err := strconv.ParseInt(hash["start_time"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time field: %w", err)
	}

	endTime, err := strconv.ParseInt(hash["end_time"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time field: %w", err)
	}

	startingValue, err := ParseAmount(hash["starting_value"])
	if err != nil {
		return nil, fmt.Errorf("invalid starting_value field: %w", err)
	}

	minIncrement, err := ParseAmount(hash["minimum_bid_increment"])
	if err != nil {
		return nil, fmt.Errorf("invalid minimum_bid_increment field: %w", err)
	}

	highestBid, err := ParseAmount(hash["highest_bid"])
	if err != nil {
		return nil, fmt.Errorf("invalid highest_bid field: %w", err)
	}

	auction := &Auction{
		ID:                  id,
		PanelID:             panelID,
		State:               AuctionState(hash["state"]),
		StartTime:           startTime,
		EndTime:             endTime,
		StartingValue:       startingValue,
		MinimumBidIncrement: minIncrement,
		HighestBid:          highestBid,
		HighestBidder:       hash["highest_bidder"],
	}

	return auction, nil
}

// PageToHash converts a Page struct to a Redis hash format.
// The panel ID array is JSON-encoded.
func PageToHash(p *Page) (map[string]interface{}, error) {
	panelIDsJSON, err := json.Marshal(p.PanelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal panel_ids: %w", err)
	}

	hash := map[string]interface{}{
		"page_number": p.PageNumber,
		"panel_ids":   string(panelIDsJSON),
		"base_uri":    p.BaseURI,
		"revealed":    p.Revealed,
	}

	return hash, nil
}

// HashToPage converts a Redis hash to a Page struct.
func HashToPage(hash map[string]string) (*Page, error) {
	pageNumber, err := strconv.ParseUint(hash["page_number"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid page_number field: %w", err)
	}

	var panelIDs []uint64
	if panelIDsJSON := hash["panel_ids"]; panelIDsJSON != "" {
		if err := json.Unmarshal([]byte(panelIDsJSON), &panelIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal panel_ids: %w", err)
		}
	}

	// Ensure we have an empty slice instead of nil for consistency
	if panelIDs == nil {
		panelIDs = []uint64{}
	}

	revealed, _ := strconv.ParseBool(hash["revealed"])

	page := &Page{
		PageNumber: pageNumber,
		PanelIDs:   panelIDs,
		BaseURI:    hash["base_uri"],
		Revealed:   revealed,
	}

	return page, nil
}

// PanelToHash converts a Panel struct to a Redis hash format.
func PanelToHash(p *Panel) map[string]interface{} {
	return map[string]interface{}{
		"token_id":    p.TokenID,
		"page_number": p.PageNumber,
		"auction_id":  p.AuctionID,
		"owner":       p.Owner,
	}
}

// HashToPanel converts a Redis hash to a Panel struct.
func HashToPanel(hash map[string]string) (*Panel, error) {
	tokenID, err := strconv.ParseUint(hash["token_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token_id field: %w", err)
	}

	pageNumber, err := strconv.ParseUint(hash["page_number"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid page_number field: %w", err)
	}

	auctionID, err := strconv.ParseUint(hash["auction_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid auction_id field: %w", err)
	}

	panel := &Panel{
		TokenID:    tokenID,
		PageNumber: pageNumber,
		AuctionID:  auctionID,
		Owner:      hash["owner"],
	}

	return panel, nil
}

// DefaultsToHash converts a Defaults struct to a Redis hash format.
// The duration is stored in whole seconds; amounts as decimal strings.
func DefaultsToHash(d *Defaults) (map[string]interface{}, error) {
	if d.StartingValue == nil || d.MinimumBidIncrement == nil {
		return nil, fmt.Errorf("defaults amounts must be non-nil")
	}

	hash := map[string]interface{}{
		"duration_secs":         int64(d.Duration / time.Second),
		"starting_value":        d.StartingValue.String(),
		"minimum_bid_increment": d.MinimumBidIncrement.String(),
	}

	return hash, nil
}

// HashToDefaults converts a Redis hash to a Defaults struct.
func HashToDefaults(hash map[string]string) (*Defaults, error) {
	durationSecs, err := strconv.ParseInt(hash["duration_secs"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid duration_secs field: %w", err)
	}

	startingValue, err := ParseAmount(hash["starting_value"])
	if err != nil {
		return nil, fmt.Errorf("invalid starting_value field: %w", err)
	}

	minIncrement, err := ParseAmount(hash["minimum_bid_increment"])
	if err != nil {
		return nil, fmt.Errorf("invalid minimum_bid_increment field: %w", err)
	}

	defaults := &Defaults{
		Duration:            time.Duration(durationSecs) * time.Second,
		StartingValue:       startingValue,
		MinimumBidIncrement: minIncrement,
	}

	return defaults, nil
}

// ParseAmount parses a non-negative decimal string into a big.Int amount.
// The empty string parses to zero, matching absent Redis hash fields.
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}

	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal amount: %q", s)
	}

	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must be non-negative: %q", s)
	}

	return amount, nil
}
