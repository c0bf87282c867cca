// Package merge combines a confirmed duplicate pair into a single contact
// without losing information. Structured fields resolve deterministically,
// multi-valued fields are set-unioned, and free-text notes go through a
// structure-aware reconciliation pass.
package merge

import (
	"time"

	"github.com/rolotools/rolo/internal/dedupe"
	"github.com/rolotools/rolo/internal/types"
)

// Merge absorbs an incoming record into an existing contact and returns a
// new contact. The result always keeps the existing contact's ID, source,
// and creation time; UpdatedAt is set to now. Inputs are never mutated and
// the function is total: any structurally valid pair produces a result.
//
// Field policy:
//   - name: incoming wins only when strictly longer (more detail wins);
//     a placeholder name never wins over a real one
//   - company/role/location: incoming wins when present and not a
//     placeholder, otherwise existing; a placeholder is never introduced
//   - emails/phones/linkedin URLs/other URLs: first-seen-order set union
//   - notes: reconciled then cleaned against the merged structured fields
func Merge(existing *types.Contact, incoming *types.PartialContact, now time.Time) *types.Contact {
	merged := existing.Clone()
	merged.UpdatedAt = now

	if incoming == nil {
		return merged
	}

	if incoming.Name != nil && !types.IsPlaceholder(*incoming.Name) {
		if types.IsPlaceholder(existing.Name) || len(*incoming.Name) > len(existing.Name) {
			merged.Name = *incoming.Name
		}
	}
	merged.Company = resolveScalar(existing.Company, incoming.Company)
	merged.Role = resolveScalar(existing.Role, incoming.Role)
	merged.Location = resolveScalar(existing.Location, incoming.Location)

	info := incoming.Info()
	merged.ContactInfo.Emails = UnionStrings(existing.ContactInfo.Emails, info.Emails, dedupe.NormalizeEmail)
	merged.ContactInfo.Phones = UnionStrings(existing.ContactInfo.Phones, info.Phones, dedupe.NormalizePhone)
	merged.ContactInfo.LinkedInURLs = UnionStrings(existing.ContactInfo.LinkedInURLs, info.LinkedInURLs, func(s string) string { return s })
	merged.ContactInfo.OtherURLs = unionOtherURLs(existing.ContactInfo.OtherURLs, info.OtherURLs)

	merged.Notes = CleanNotes(ReconcileNotes(existing.Notes, incoming.GetNotes()), merged)

	return merged
}

// resolveScalar resolves company/role/location. Placeholders on either
// side count as absent and are never written back. When both sides carry
// real data the longer value wins (more detail wins, same heuristic as
// the name field), so resolution is value-driven rather than
// order-driven; an exact length tie goes to the incoming side.
func resolveScalar(existing string, incoming *string) string {
	inc := ""
	if incoming != nil && !types.IsPlaceholder(*incoming) {
		inc = *incoming
	}
	if types.IsPlaceholder(existing) {
		existing = ""
	}
	if inc == "" {
		return existing
	}
	if len(existing) > len(inc) {
		return existing
	}
	return inc
}

// UnionStrings appends incoming items not already present under the given
// normalization, preserving first-seen order. The original spelling of
// each kept item is preserved; normalization is used only for equality.
func UnionStrings(existing, incoming []string, normalize func(string) string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, v := range existing {
		norm := normalize(v)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, v)
	}
	for _, v := range incoming {
		norm := normalize(v)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, v)
	}
	return out
}

// unionOtherURLs unions by the (platform, url) pair
func unionOtherURLs(existing, incoming []types.OtherURL) []types.OtherURL {
	var out []types.OtherURL
	seen := make(map[types.OtherURL]bool)

	for _, u := range append(append([]types.OtherURL{}, existing...), incoming...) {
		if u.URL == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
