package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rolotools/rolo/internal/dedupe"
	"github.com/rolotools/rolo/internal/merge"
	"github.com/rolotools/rolo/internal/types"
)

// MergeStrategy is the AI-assisted implementation of merge.Strategy. It
// hands both records to the model and lets it reconcile free text with
// judgment the deterministic path does not have: paraphrased note lines
// can be collapsed, and "connected on" provenance lines are preserved
// rather than stripped. Structural invariants (id, source, createdAt) are
// enforced locally after the call; the model is never trusted with them.
type MergeStrategy struct {
	Client *Client

	// Now is the clock used for UpdatedAt; defaults to time.Now
	Now func() time.Time
}

// Compile-time check that MergeStrategy implements merge.Strategy
var _ merge.Strategy = (*MergeStrategy)(nil)

// mergedRecord is the JSON shape the model returns
type mergedRecord struct {
	Name         string   `json:"name"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Location     string   `json:"location"`
	Emails       []string `json:"emails"`
	Phones       []string `json:"phones"`
	LinkedInURLs []string `json:"linkedin_urls"`
	Notes        string   `json:"notes"`
}

// Name implements merge.Strategy
func (s *MergeStrategy) Name() string {
	return "ai-assisted"
}

// Merge implements merge.Strategy
func (s *MergeStrategy) Merge(ctx context.Context, existing *types.Contact, incoming *types.PartialContact) (*types.Contact, error) {
	if s.Client == nil {
		return nil, fmt.Errorf("AI client is required")
	}

	prompt := buildMergePrompt(existing, incoming)

	responseText, err := s.Client.CallModel(ctx, prompt, "merge_contacts", "", 2000)
	if err != nil {
		return nil, fmt.Errorf("AI merge failed: %w", err)
	}

	parseResult := Parse[mergedRecord](responseText)
	if !parseResult.Success {
		return nil, fmt.Errorf("failed to parse merge response: %s (response: %s)",
			parseResult.Error, truncateString(responseText, 200))
	}

	return s.applyMerged(existing, incoming, parseResult.Data), nil
}

// applyMerged folds the model's output into a contact while enforcing the
// invariants the model must not control: the merged contact keeps the
// existing record's id, source, and creation time, and multi-valued
// fields are re-unioned locally so a forgetful model cannot drop values.
func (s *MergeStrategy) applyMerged(existing *types.Contact, incoming *types.PartialContact, rec mergedRecord) *types.Contact {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	// Deterministic union as the floor; model output can refine scalars
	// and notes but never shrink the value sets
	merged := merge.Merge(existing, incoming, now())

	// Values the model surfaced beyond both inputs (say, an email it
	// pulled out of a notes line) are unioned in on top of the floor
	merged.ContactInfo.Emails = merge.UnionStrings(merged.ContactInfo.Emails, rec.Emails, dedupe.NormalizeEmail)
	merged.ContactInfo.Phones = merge.UnionStrings(merged.ContactInfo.Phones, rec.Phones, dedupe.NormalizePhone)
	merged.ContactInfo.LinkedInURLs = merge.UnionStrings(merged.ContactInfo.LinkedInURLs, rec.LinkedInURLs, func(s string) string { return s })

	if name := strings.TrimSpace(rec.Name); name != "" && !types.IsPlaceholder(name) {
		merged.Name = name
	}
	if !types.IsPlaceholder(rec.Company) {
		merged.Company = strings.TrimSpace(rec.Company)
	}
	if !types.IsPlaceholder(rec.Role) {
		merged.Role = strings.TrimSpace(rec.Role)
	}
	if !types.IsPlaceholder(rec.Location) {
		merged.Location = strings.TrimSpace(rec.Location)
	}
	if notes := strings.TrimSpace(rec.Notes); notes != "" {
		merged.Notes = notes
	}

	return merged
}

// buildMergePrompt carries both records and the merge policy
func buildMergePrompt(existing *types.Contact, incoming *types.PartialContact) string {
	info := incoming.Info()

	return fmt.Sprintf(`You are merging two records that describe the same person.

EXISTING CONTACT:
Name: %s
Company: %s
Role: %s
Location: %s
Emails: %s
Phones: %s
LinkedIn: %s
Notes:
%s

INCOMING RECORD:
Name: %s
Company: %s
Role: %s
Location: %s
Emails: %s
Phones: %s
LinkedIn: %s
Notes:
%s

TASK:
Produce ONE merged contact that keeps all real information from both records.

IMPORTANT GUIDELINES:
1. Prefer the more complete/detailed value for each field.
2. Placeholder values ("unknown", "n/a", "-") are NOT data; never output them.
3. Merge the notes thoughtfully: collapse lines that say the same thing in
   different words, keep everything else, one fact per line.
4. KEEP "connected on" / connection-date lines in the notes; they are
   provenance worth preserving.
5. Drop note lines that merely repeat the company/role/location fields.
6. Never invent information that appears in neither record.

OUTPUT FORMAT (JSON only, no markdown):
{
  "name": "...",
  "company": "...",
  "role": "...",
  "location": "...",
  "emails": ["..."],
  "phones": ["..."],
  "linkedin_urls": ["..."],
  "notes": "..."
}

IMPORTANT: Respond with ONLY raw JSON. Do NOT wrap it in markdown code fences.`,
		existing.Name, existing.Company, existing.Role, existing.Location,
		strings.Join(existing.ContactInfo.Emails, ", "),
		strings.Join(existing.ContactInfo.Phones, ", "),
		strings.Join(existing.ContactInfo.LinkedInURLs, ", "),
		existing.Notes,
		incoming.GetName(), deref(incoming.Company), deref(incoming.Role), deref(incoming.Location),
		strings.Join(info.Emails, ", "),
		strings.Join(info.Phones, ", "),
		strings.Join(info.LinkedInURLs, ", "),
		incoming.GetNotes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
