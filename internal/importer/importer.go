package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rolotools/rolo/internal/ai"
	"github.com/rolotools/rolo/internal/dedupe"
	"github.com/rolotools/rolo/internal/merge"
	"github.com/rolotools/rolo/internal/storage"
	"github.com/rolotools/rolo/internal/types"
)

// Options controls a single import run
type Options struct {
	// Source is recorded on every inserted contact
	Source types.Source

	// AINormalize routes raw rows through the model instead of the
	// header mapping heuristics. Requires a client.
	AINormalize bool

	// BatchSize is the number of rows per normalization call
	BatchSize int

	// Review queues duplicate matches for interactive resolution
	// instead of merging them
	Review bool

	// DryRun reports what would happen without writing anything
	DryRun bool
}

// Result summarizes an import run
type Result struct {
	Inserted int
	Merged   int
	Queued   int
	Skipped  int
}

// Importer drives the merge-or-insert pipeline for a parsed file
type Importer struct {
	store    storage.Storage
	strategy merge.Strategy
	client   *ai.Client
}

// NewImporter creates an importer. client may be nil when AI
// normalization is not requested.
func NewImporter(store storage.Storage, strategy merge.Strategy, client *ai.Client) *Importer {
	return &Importer{store: store, strategy: strategy, client: client}
}

// Run imports the CSV data from r into storage
func (im *Importer) Run(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	if !opts.Source.IsValid() {
		return nil, fmt.Errorf("invalid source: %s", opts.Source)
	}

	parsed, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	partials := parsed.Parsed
	if opts.AINormalize {
		if im.client == nil {
			return nil, fmt.Errorf("AI normalization requested but no client configured (set ANTHROPIC_API_KEY)")
		}
		partials, err = im.normalize(ctx, parsed, opts.BatchSize)
		if err != nil {
			return nil, err
		}
	}

	existing, err := im.store.ListContacts(ctx, types.ContactFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing contacts: %w", err)
	}
	index := dedupe.NewIndex(existing)

	result := &Result{Skipped: parsed.Skipped}
	var queue []ReviewItem

	for _, partial := range partials {
		if strings.TrimSpace(partial.GetName()) == "" {
			result.Skipped++
			continue
		}

		matches := index.Find(partial)
		if len(matches) == 0 {
			contact := Materialize(partial, opts.Source)
			if !opts.DryRun {
				if err := im.store.CreateContact(ctx, contact); err != nil {
					return result, fmt.Errorf("failed to insert %s: %w", contact.Name, err)
				}
			}
			index.Add(contact)
			result.Inserted++
			continue
		}

		match := matches[0]
		if opts.Review {
			queue = append(queue, ReviewItem{
				ExistingID: match.Existing.ID,
				Incoming:   partial,
				MatchType:  match.MatchType,
				MatchValue: match.MatchValue,
			})
			result.Queued++
			continue
		}

		merged, err := im.strategy.Merge(ctx, match.Existing, partial)
		if err != nil {
			return result, fmt.Errorf("failed to merge into %s: %w", match.Existing.ID, err)
		}
		if !opts.DryRun {
			if err := im.store.UpdateContact(ctx, merged); err != nil {
				return result, fmt.Errorf("failed to update %s: %w", merged.ID, err)
			}
		}
		// Later rows must merge into the merged record, not the stale one
		index.Update(merged)
		result.Merged++
	}

	if len(queue) > 0 && !opts.DryRun {
		if err := AppendReviewQueue(ctx, im.store, queue); err != nil {
			return result, err
		}
	}
	return result, nil
}

// normalize sends the raw rows through the model in batches. A failed
// batch falls back to the header-mapped partials for those rows.
func (im *Importer) normalize(ctx context.Context, parsed *ParsedFile, batchSize int) ([]*types.PartialContact, error) {
	if batchSize <= 0 {
		batchSize = 20
	}

	out := make([]*types.PartialContact, 0, len(parsed.Rows))
	for start := 0; start < len(parsed.Rows); start += batchSize {
		end := start + batchSize
		if end > len(parsed.Rows) {
			end = len(parsed.Rows)
		}
		batch, err := im.client.NormalizeRows(ctx, parsed.Headers, parsed.Rows[start:end])
		if err != nil {
			log.Printf("Warning: normalization failed for rows %d-%d, using header mapping: %v", start+1, end, err)
			out = append(out, parsed.Parsed[start:end]...)
			continue
		}
		out = append(out, batch...)
	}
	return out, nil
}

// Materialize turns a partial record into a full contact ready to insert
func Materialize(p *types.PartialContact, source types.Source) *types.Contact {
	now := time.Now().UTC()
	c := &types.Contact{
		ID:          uuid.New().String(),
		Name:        p.GetName(),
		ContactInfo: p.Info().Clone(),
		Notes:       p.GetNotes(),
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Source != nil && p.Source.IsValid() {
		c.Source = *p.Source
	}
	if p.Company != nil && !types.IsPlaceholder(*p.Company) {
		c.Company = *p.Company
	}
	if p.Role != nil && !types.IsPlaceholder(*p.Role) {
		c.Role = *p.Role
	}
	if p.Location != nil && !types.IsPlaceholder(*p.Location) {
		c.Location = *p.Location
	}
	return c
}
