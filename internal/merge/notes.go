package merge

import (
	"strings"

	"github.com/rolotools/rolo/internal/types"
)

// standardKeys are emitted first, in this order, when notes are reassembled
var standardKeys = []string{"company", "title", "position", "location", "email", "phone"}

// parsedNotes is one side of a notes string broken into structure:
// key-value lines (lowercased key, split on the first colon) and verbatim
// free-text lines. Order slices keep first-seen ordering for stable output.
type parsedNotes struct {
	values   map[string]string
	keyOrder []string
	freeText []string
	freeSeen map[string]bool
}

// ReconcileNotes merges two free-text note strings. Key-value lines merge
// with the longer value winning; free-text lines union with exact-string
// dedup only. Near-duplicate phrasing is intentionally NOT collapsed here;
// fuzzy reconciliation belongs to the AI merge path.
//
// If either side is empty the other is returned verbatim, and identical
// inputs pass through untouched, so unmerged notes are never reformatted.
func ReconcileNotes(existingNotes, incomingNotes string) string {
	if strings.TrimSpace(existingNotes) == "" {
		return incomingNotes
	}
	if strings.TrimSpace(incomingNotes) == "" {
		return existingNotes
	}
	if existingNotes == incomingNotes {
		return existingNotes
	}

	merged := parseNotes(existingNotes)
	merged.absorb(parseNotes(incomingNotes))
	return merged.assemble()
}

func parseNotes(notes string) *parsedNotes {
	p := &parsedNotes{
		values:   make(map[string]string),
		freeSeen: make(map[string]bool),
	}
	p.absorbText(notes)
	return p
}

// absorbText splits a notes string into lines (on newlines and semicolons)
// and files each line as key-value or free text
func (p *parsedNotes) absorbText(notes string) {
	for _, line := range splitNoteLines(notes) {
		key, value, ok := splitKeyValue(line)
		if ok {
			p.setValue(key, value)
			continue
		}
		if !p.freeSeen[line] {
			p.freeSeen[line] = true
			p.freeText = append(p.freeText, line)
		}
	}
}

// absorb merges another parsed side into this one, longer value winning
// per key and free text unioned with exact dedup
func (p *parsedNotes) absorb(other *parsedNotes) {
	for _, key := range other.keyOrder {
		p.setValue(key, other.values[key])
	}
	for _, line := range other.freeText {
		if !p.freeSeen[line] {
			p.freeSeen[line] = true
			p.freeText = append(p.freeText, line)
		}
	}
}

// setValue records a key-value pair, keeping the longer value when the
// key is already present (more detail wins)
func (p *parsedNotes) setValue(key, value string) {
	if existing, ok := p.values[key]; ok {
		if len(value) > len(existing) {
			p.values[key] = value
		}
		return
	}
	p.values[key] = value
	p.keyOrder = append(p.keyOrder, key)
}

// assemble emits standard keys first in their preferred order, then the
// remaining keys in first-seen order, a blank line, then free text
func (p *parsedNotes) assemble() string {
	var lines []string
	emitted := make(map[string]bool)

	for _, key := range standardKeys {
		if value, ok := p.values[key]; ok {
			lines = append(lines, titleCaseKey(key)+": "+value)
			emitted[key] = true
		}
	}
	for _, key := range p.keyOrder {
		if !emitted[key] {
			lines = append(lines, titleCaseKey(key)+": "+p.values[key])
		}
	}

	if len(p.freeText) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, p.freeText...)
	}

	return strings.Join(lines, "\n")
}

// roleKeys, companyKeys, locationKeys identify note lines that duplicate
// a structured field after a merge
var (
	roleKeys     = map[string]bool{"role": true, "position": true, "title": true}
	companyKeys  = map[string]bool{"company": true, "employer": true}
	locationKeys = map[string]bool{"location": true}
)

// CleanNotes strips note lines whose key-value content duplicates the
// merged contact's structured fields, and always strips connection-date
// lines (connection provenance is handled by the AI merge path). Lines
// that survive are left byte-for-byte untouched; when nothing is
// stripped the input is returned unchanged.
func CleanNotes(notes string, merged *types.Contact) string {
	if notes == "" {
		return notes
	}

	lines := strings.Split(notes, "\n")
	kept := make([]string, 0, len(lines))
	stripped := false

	for _, line := range lines {
		if shouldStripLine(line, merged) {
			stripped = true
			continue
		}
		kept = append(kept, line)
	}

	if !stripped {
		return notes
	}
	return strings.TrimSpace(strings.Join(collapseBlankRuns(kept), "\n"))
}

func shouldStripLine(line string, merged *types.Contact) bool {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	// Connection-date provenance is always dropped on the deterministic path
	if strings.HasPrefix(lower, "connected:") || strings.Contains(lower, "connected on") {
		return true
	}

	key, value, ok := splitKeyValue(trimmed)
	if !ok {
		return false
	}

	switch {
	case roleKeys[key]:
		return equalsIgnoreCase(value, merged.Role)
	case companyKeys[key]:
		return equalsIgnoreCase(value, merged.Company)
	case locationKeys[key]:
		return equalsIgnoreCase(value, merged.Location)
	}
	return false
}

// splitNoteLines breaks a notes blob on newlines and semicolons and drops
// empty segments
func splitNoteLines(notes string) []string {
	var out []string
	for _, chunk := range strings.Split(notes, "\n") {
		for _, line := range strings.Split(chunk, ";") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// splitKeyValue splits a "Key: value" line on the first colon. Both sides
// must be non-empty for the line to count as structured; anything else is
// free text. The key comes back lowercased.
func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	value = strings.TrimSpace(line[idx+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	// URLs ("https://...") are free text, not key-value lines
	if strings.HasPrefix(value, "//") {
		return "", "", false
	}
	return key, value, true
}

func equalsIgnoreCase(a, b string) bool {
	return b != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func titleCaseKey(key string) string {
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// collapseBlankRuns squeezes consecutive blank lines left behind by
// stripping so the cleaned text has at most single blank separators
func collapseBlankRuns(lines []string) []string {
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return out
}
