package dedupe

import (
	"sort"

	"github.com/rolotools/rolo/internal/types"
)

// Index precomputes lookup maps over the existing set so a whole import
// batch can be checked without rescanning every contact per row. It is an
// optimization only: Find must return exactly what FindDuplicates returns
// for the same inputs.
type Index struct {
	contacts []*types.Contact
	pos      map[string]int      // contact ID -> position in contacts
	byEmail  map[string][]string // normalized email -> contact IDs
	byPhone  map[string][]string // digits-only phone -> contact IDs
	byName   map[string][]string // normalized name -> contact IDs
	byURL    map[string][]string // exact linkedin URL -> contact IDs
}

// NewIndex builds the lookup maps in one pass over the existing set
func NewIndex(existing []*types.Contact) *Index {
	idx := &Index{
		contacts: existing,
		pos:      make(map[string]int, len(existing)),
		byEmail:  make(map[string][]string),
		byPhone:  make(map[string][]string),
		byName:   make(map[string][]string),
		byURL:    make(map[string][]string),
	}

	for i, c := range existing {
		if c == nil {
			continue
		}
		if _, dup := idx.pos[c.ID]; dup {
			continue
		}
		idx.pos[c.ID] = i
		idx.register(c)
	}

	return idx
}

// register adds a contact's lookup values to the maps. Safe to call again
// after a contact gains values; already-registered values are kept once.
func (idx *Index) register(c *types.Contact) {
	if name := NormalizeName(c.Name); name != "" {
		idx.byName[name] = appendID(idx.byName[name], c.ID)
	}
	for _, email := range c.ContactInfo.Emails {
		if norm := NormalizeEmail(email); norm != "" {
			idx.byEmail[norm] = appendID(idx.byEmail[norm], c.ID)
		}
	}
	for _, phone := range c.ContactInfo.Phones {
		if norm := NormalizePhone(phone); norm != "" {
			idx.byPhone[norm] = appendID(idx.byPhone[norm], c.ID)
		}
	}
	for _, url := range c.ContactInfo.LinkedInURLs {
		if url != "" {
			idx.byURL[url] = appendID(idx.byURL[url], c.ID)
		}
	}
}

func appendID(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// Find returns the duplicate matches for one incoming record. Candidates
// are gathered from all four maps, then each candidate is re-tested with
// the same priority logic as the naive scan so the reported match type
// and ordering are identical to FindDuplicates.
func (idx *Index) Find(incoming *types.PartialContact) []types.DuplicateMatch {
	matches := []types.DuplicateMatch{}
	if incoming == nil {
		return matches
	}

	info := incoming.Info()
	candidateIDs := make(map[string]bool)

	if name := NormalizeName(incoming.GetName()); name != "" {
		for _, id := range idx.byName[name] {
			candidateIDs[id] = true
		}
	}
	for _, email := range info.Emails {
		if norm := NormalizeEmail(email); norm != "" {
			for _, id := range idx.byEmail[norm] {
				candidateIDs[id] = true
			}
		}
	}
	for _, phone := range info.Phones {
		if norm := NormalizePhone(phone); norm != "" {
			for _, id := range idx.byPhone[norm] {
				candidateIDs[id] = true
			}
		}
	}
	for _, url := range info.LinkedInURLs {
		if url != "" {
			for _, id := range idx.byURL[url] {
				candidateIDs[id] = true
			}
		}
	}

	// Report in existing-set order, same as the naive scan
	ordered := make([]int, 0, len(candidateIDs))
	for id := range candidateIDs {
		ordered = append(ordered, idx.pos[id])
	}
	sort.Ints(ordered)

	for _, i := range ordered {
		candidate := idx.contacts[i]
		if mt, value, ok := matchSignal(candidate, incoming); ok {
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

// Add registers a newly inserted contact so later rows in the same batch
// can match against it
func (idx *Index) Add(c *types.Contact) {
	if c == nil {
		return
	}
	if _, dup := idx.pos[c.ID]; dup {
		return
	}
	idx.contacts = append(idx.contacts, c)
	idx.pos[c.ID] = len(idx.contacts) - 1
	idx.register(c)
}

// Update replaces a stored contact's entry after it has been merged into,
// so later rows in the same batch match against the merged values instead
// of the stale pre-merge record. Merging only adds values, so the existing
// map entries stay valid; the new values are registered on top.
func (idx *Index) Update(c *types.Contact) {
	if c == nil {
		return
	}
	i, ok := idx.pos[c.ID]
	if !ok {
		idx.Add(c)
		return
	}
	idx.contacts[i] = c
	idx.register(c)
}
