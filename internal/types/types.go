package types

import (
	"fmt"
	"strings"
	"time"
)

// Contact represents a single person in the address book
type Contact struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Company     string      `json:"company,omitempty"`
	Role        string      `json:"role,omitempty"`
	Location    string      `json:"location,omitempty"`
	ContactInfo ContactInfo `json:"contact_info"`
	Notes       string      `json:"notes,omitempty"`
	Source      Source      `json:"source"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ContactInfo holds the multi-valued reachability fields of a contact.
// LinkedInURLs is the canonical plural form; older export schemas with a
// single linkedin_url are folded into the slice at the import boundary.
type ContactInfo struct {
	Emails       []string   `json:"emails,omitempty"`
	Phones       []string   `json:"phones,omitempty"`
	LinkedInURLs []string   `json:"linkedin_urls,omitempty"`
	OtherURLs    []OtherURL `json:"other_urls,omitempty"`
}

// OtherURL is a non-LinkedIn profile link, unique by (platform, url)
type OtherURL struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Validate checks if the contact has valid field values
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Name) > 500 {
		return fmt.Errorf("name must be 500 characters or less (got %d)", len(c.Name))
	}
	if !c.Source.IsValid() {
		return fmt.Errorf("invalid source: %s", c.Source)
	}
	return nil
}

// Clone returns a deep copy of the contact. Merge operations never mutate
// their inputs, so anything that wants to modify a contact copies it first.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := *c
	out.ContactInfo = c.ContactInfo.Clone()
	return &out
}

// Clone returns a deep copy of the contact info
func (ci ContactInfo) Clone() ContactInfo {
	out := ContactInfo{}
	if ci.Emails != nil {
		out.Emails = append([]string{}, ci.Emails...)
	}
	if ci.Phones != nil {
		out.Phones = append([]string{}, ci.Phones...)
	}
	if ci.LinkedInURLs != nil {
		out.LinkedInURLs = append([]string{}, ci.LinkedInURLs...)
	}
	if ci.OtherURLs != nil {
		out.OtherURLs = append([]OtherURL{}, ci.OtherURLs...)
	}
	return out
}

// PartialContact is a Contact-shaped record where every field is optional.
// It is what CSV parsing and AI normalization produce before the record has
// been reconciled against the existing set. Scalar fields are pointers so
// "absent" and "empty" stay distinguishable.
type PartialContact struct {
	Name        *string      `json:"name,omitempty"`
	Company     *string      `json:"company,omitempty"`
	Role        *string      `json:"role,omitempty"`
	Location    *string      `json:"location,omitempty"`
	ContactInfo *ContactInfo `json:"contact_info,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
	Source      *Source      `json:"source,omitempty"`
}

// GetName returns the name or "" when absent
func (p *PartialContact) GetName() string {
	if p == nil || p.Name == nil {
		return ""
	}
	return *p.Name
}

// GetNotes returns the notes text or "" when absent
func (p *PartialContact) GetNotes() string {
	if p == nil || p.Notes == nil {
		return ""
	}
	return *p.Notes
}

// Info returns the contact info, or a zero value when absent. A partial
// record with no contact info simply produces no email/phone/URL signals.
func (p *PartialContact) Info() ContactInfo {
	if p == nil || p.ContactInfo == nil {
		return ContactInfo{}
	}
	return *p.ContactInfo
}

// AsPartial views a stored contact as an incoming partial record, for
// matching stored contacts against each other.
func (c *Contact) AsPartial() *PartialContact {
	if c == nil {
		return nil
	}
	info := c.ContactInfo.Clone()
	p := &PartialContact{
		Name:        StringPtr(c.Name),
		ContactInfo: &info,
		Source:      &c.Source,
	}
	if c.Company != "" {
		p.Company = StringPtr(c.Company)
	}
	if c.Role != "" {
		p.Role = StringPtr(c.Role)
	}
	if c.Location != "" {
		p.Location = StringPtr(c.Location)
	}
	if c.Notes != "" {
		p.Notes = StringPtr(c.Notes)
	}
	return p
}

// Source identifies where a contact record originally came from.
// Provenance is copied through merges, never recomputed.
type Source string

const (
	SourceGoogle   Source = "google"
	SourceLinkedIn Source = "linkedin"
	SourceManual   Source = "manual"
)

// IsValid checks if the source value is valid
func (s Source) IsValid() bool {
	switch s {
	case SourceGoogle, SourceLinkedIn, SourceManual:
		return true
	}
	return false
}

// MatchType identifies which signal flagged two contacts as duplicates
type MatchType string

const (
	MatchName     MatchType = "name"
	MatchEmail    MatchType = "email"
	MatchPhone    MatchType = "phone"
	MatchLinkedIn MatchType = "linkedin"
)

// IsValid checks if the match type value is valid
func (m MatchType) IsValid() bool {
	switch m {
	case MatchName, MatchEmail, MatchPhone, MatchLinkedIn:
		return true
	}
	return false
}

// DuplicateMatch reports that an incoming record plausibly refers to the
// same person as an existing contact. An existing contact appears at most
// once per incoming record: when several signals fire, the highest-priority
// one is reported (reporting simplification, not a judgment that the other
// signals didn't also match).
type DuplicateMatch struct {
	Existing   *Contact        `json:"existing"`
	Incoming   *PartialContact `json:"incoming"`
	MatchType  MatchType       `json:"match_type"`
	MatchValue string          `json:"match_value"`
}

// ContactFilter is used to filter contact list/search queries
type ContactFilter struct {
	Source  *Source
	Company *string
	Limit   int
}

// placeholderValues are field values that semantically mean "no data".
// They must never win over a real value during a merge, and a merge must
// never reintroduce one when the true value is empty.
var placeholderValues = map[string]bool{
	"":          true,
	"unknown":   true,
	"<unknown>": true,
	"n/a":       true,
	"na":        true,
	"none":      true,
	"null":      true,
	"-":         true,
}

// IsPlaceholder reports whether a field value is semantically absent
func IsPlaceholder(s string) bool {
	return placeholderValues[strings.ToLower(strings.TrimSpace(s))]
}

// StringPtr returns a pointer to the given string. Convenience for
// constructing PartialContact literals.
func StringPtr(s string) *string {
	return &s
}
