package merge

import (
	"context"
	"time"

	"github.com/rolotools/rolo/internal/types"
)

// Strategy is the capability interface for combining a confirmed duplicate
// pair. Two implementations exist: DeterministicStrategy (this package,
// local, never errors) and the AI-assisted strategy in internal/ai, which
// applies a richer prompt-driven notes policy and may fail. The two paths
// are not required to produce identical output; callers pick one and may
// fall back to the deterministic path when the AI path errors.
type Strategy interface {
	// Merge combines the incoming record into the existing contact and
	// returns a new contact carrying the existing contact's ID.
	Merge(ctx context.Context, existing *types.Contact, incoming *types.PartialContact) (*types.Contact, error)

	// Name identifies the strategy in logs and summaries
	Name() string
}

// DeterministicStrategy merges locally with the fixed field policy in
// Merge. It never errors and ignores the context (there are no suspension
// points in a pure merge).
type DeterministicStrategy struct {
	// Now is the clock used for UpdatedAt; defaults to time.Now
	Now func() time.Time
}

// Merge implements Strategy
func (s *DeterministicStrategy) Merge(_ context.Context, existing *types.Contact, incoming *types.PartialContact) (*types.Contact, error) {
	now := time.Now
	if s != nil && s.Now != nil {
		now = s.Now
	}
	return Merge(existing, incoming, now()), nil
}

// Name implements Strategy
func (s *DeterministicStrategy) Name() string {
	return "deterministic"
}
