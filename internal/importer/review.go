package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolotools/rolo/internal/storage"
	"github.com/rolotools/rolo/internal/types"
)

// reviewQueueKey is the config key holding the pending review queue
const reviewQueueKey = "review_queue"

// ReviewItem is a duplicate match waiting for interactive resolution.
// Only the existing contact's ID is stored; the contact itself is
// re-fetched at review time so the queue survives edits in between.
type ReviewItem struct {
	ExistingID string                `json:"existing_id"`
	Incoming   *types.PartialContact `json:"incoming"`
	MatchType  types.MatchType       `json:"match_type"`
	MatchValue string                `json:"match_value"`
}

// LoadReviewQueue returns the pending review items, oldest first
func LoadReviewQueue(ctx context.Context, store storage.Storage) ([]ReviewItem, error) {
	raw, err := store.GetConfig(ctx, reviewQueueKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load review queue: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var items []ReviewItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse review queue: %w", err)
	}
	return items, nil
}

// SaveReviewQueue replaces the pending review queue
func SaveReviewQueue(ctx context.Context, store storage.Storage, items []ReviewItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode review queue: %w", err)
	}
	if err := store.SetConfig(ctx, reviewQueueKey, string(data)); err != nil {
		return fmt.Errorf("failed to save review queue: %w", err)
	}
	return nil
}

// AppendReviewQueue adds items to the pending review queue
func AppendReviewQueue(ctx context.Context, store storage.Storage, items []ReviewItem) error {
	existing, err := LoadReviewQueue(ctx, store)
	if err != nil {
		return err
	}
	return SaveReviewQueue(ctx, store, append(existing, items...))
}
