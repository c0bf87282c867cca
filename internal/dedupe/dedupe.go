// Package dedupe decides whether an incoming contact record plausibly
// refers to the same person as an existing contact. It is pure data
// transformation: no I/O, no storage, no mutation of inputs.
package dedupe

import (
	"strings"

	"github.com/rolotools/rolo/internal/types"
)

// FindDuplicates scans the existing set for contacts that plausibly match
// the incoming record. Signals are tested in priority order (name, email,
// phone, linkedin URL) and the first hit wins: an existing contact is
// reported at most once, even when several incoming values matched it.
//
// Absence of a match is normal and frequent; the result is simply empty.
// A record entirely missing contact info produces no matches from those
// signal types rather than an error.
func FindDuplicates(existing []*types.Contact, incoming *types.PartialContact) []types.DuplicateMatch {
	matches := []types.DuplicateMatch{}
	if incoming == nil {
		return matches
	}

	seen := make(map[string]bool)
	for _, candidate := range existing {
		if candidate == nil || seen[candidate.ID] {
			continue
		}
		if mt, value, ok := matchSignal(candidate, incoming); ok {
			seen[candidate.ID] = true
			matches = append(matches, types.DuplicateMatch{
				Existing:   candidate,
				Incoming:   incoming,
				MatchType:  mt,
				MatchValue: value,
			})
		}
	}
	return matches
}

// matchSignal tests the four duplicate signals in priority order and
// returns the first one that fires.
func matchSignal(existing *types.Contact, incoming *types.PartialContact) (types.MatchType, string, bool) {
	info := incoming.Info()

	if name := NormalizeName(incoming.GetName()); name != "" && name == NormalizeName(existing.Name) {
		return types.MatchName, name, true
	}

	for _, email := range info.Emails {
		norm := NormalizeEmail(email)
		if norm == "" {
			continue
		}
		for _, have := range existing.ContactInfo.Emails {
			if norm == NormalizeEmail(have) {
				return types.MatchEmail, norm, true
			}
		}
	}

	for _, phone := range info.Phones {
		norm := NormalizePhone(phone)
		if norm == "" {
			continue
		}
		for _, have := range existing.ContactInfo.Phones {
			if norm == NormalizePhone(have) {
				return types.MatchPhone, norm, true
			}
		}
	}

	// Identity URLs are compared byte-for-byte on purpose: the URL is the
	// strongest signal and a false positive here is costly, so scheme or
	// trailing-slash differences do NOT match.
	for _, url := range info.LinkedInURLs {
		if url == "" {
			continue
		}
		for _, have := range existing.ContactInfo.LinkedInURLs {
			if url == have {
				return types.MatchLinkedIn, url, true
			}
		}
	}

	return "", "", false
}

// NormalizeName lowercases, trims, and collapses internal whitespace so
// "Ada  Lovelace " and "ada lovelace" compare equal
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizeEmail lowercases and trims an email address for comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips everything but digits, so "+1 (555) 123-4567"
// and "5551234567" compare equal
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
