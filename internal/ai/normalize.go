package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rolotools/rolo/internal/types"
)

// normalizedRow is the JSON shape the model returns per CSV row
type normalizedRow struct {
	Name         string   `json:"name"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Location     string   `json:"location"`
	Emails       []string `json:"emails"`
	Phones       []string `json:"phones"`
	LinkedInURLs []string `json:"linkedin_urls"`
	Notes        string   `json:"notes"`
}

type normalizeResponse struct {
	Rows []normalizedRow `json:"rows"`
}

// NormalizeRows turns raw CSV rows into canonical partial contacts in one
// batched model call. The model maps arbitrary export headers onto the
// contact shape and scrubs placeholder values; local scrubbing runs again
// afterwards because the model cannot be trusted to do it reliably.
//
// The returned slice always has one entry per input row, in order. A row
// the model could not make sense of comes back as an empty partial.
func (c *Client) NormalizeRows(ctx context.Context, headers []string, rows [][]string) ([]*types.PartialContact, error) {
	if len(rows) == 0 {
		return []*types.PartialContact{}, nil
	}

	prompt := buildNormalizePrompt(headers, rows)

	// ~120 tokens per row plus overhead, clamped
	maxTokens := len(rows)*150 + 200
	if maxTokens < 1000 {
		maxTokens = 1000
	}
	if maxTokens > 8000 {
		maxTokens = 8000
	}

	responseText, err := c.CallModel(ctx, prompt, "normalize_rows", GetSimpleTaskModel(), maxTokens)
	if err != nil {
		return nil, fmt.Errorf("AI row normalization failed: %w", err)
	}

	parseResult := Parse[normalizeResponse](responseText)
	if !parseResult.Success {
		return nil, fmt.Errorf("failed to parse normalization response: %s (response: %s)",
			parseResult.Error, truncateString(responseText, 200))
	}

	if len(parseResult.Data.Rows) != len(rows) {
		log.Printf("[WARN] Normalization returned %d rows, expected %d", len(parseResult.Data.Rows), len(rows))
		if len(parseResult.Data.Rows) < len(rows)/2 {
			return nil, fmt.Errorf("insufficient rows from AI: got %d, expected %d",
				len(parseResult.Data.Rows), len(rows))
		}
	}

	out := make([]*types.PartialContact, len(rows))
	for i := range out {
		if i < len(parseResult.Data.Rows) {
			out[i] = partialFromNormalized(parseResult.Data.Rows[i])
		} else {
			out[i] = &types.PartialContact{}
		}
	}
	return out, nil
}

// partialFromNormalized converts a model row into a PartialContact,
// scrubbing placeholders so they never reach the merge engine
func partialFromNormalized(row normalizedRow) *types.PartialContact {
	p := &types.PartialContact{}

	if !types.IsPlaceholder(row.Name) {
		p.Name = types.StringPtr(strings.TrimSpace(row.Name))
	}
	if !types.IsPlaceholder(row.Company) {
		p.Company = types.StringPtr(strings.TrimSpace(row.Company))
	}
	if !types.IsPlaceholder(row.Role) {
		p.Role = types.StringPtr(strings.TrimSpace(row.Role))
	}
	if !types.IsPlaceholder(row.Location) {
		p.Location = types.StringPtr(strings.TrimSpace(row.Location))
	}
	if notes := strings.TrimSpace(row.Notes); notes != "" && !types.IsPlaceholder(notes) {
		p.Notes = types.StringPtr(notes)
	}

	info := types.ContactInfo{}
	for _, email := range row.Emails {
		if email = strings.TrimSpace(email); email != "" && !types.IsPlaceholder(email) {
			info.Emails = append(info.Emails, email)
		}
	}
	for _, phone := range row.Phones {
		if phone = strings.TrimSpace(phone); phone != "" && !types.IsPlaceholder(phone) {
			info.Phones = append(info.Phones, phone)
		}
	}
	for _, url := range row.LinkedInURLs {
		if url = strings.TrimSpace(url); url != "" && !types.IsPlaceholder(url) {
			info.LinkedInURLs = append(info.LinkedInURLs, url)
		}
	}
	if len(info.Emails) > 0 || len(info.Phones) > 0 || len(info.LinkedInURLs) > 0 {
		p.ContactInfo = &info
	}

	return p
}

// buildNormalizePrompt builds the batched row-normalization prompt
func buildNormalizePrompt(headers []string, rows [][]string) string {
	var b strings.Builder

	b.WriteString(`You are normalizing rows from a contact export CSV into a canonical shape.

CSV HEADERS:
`)
	b.WriteString(strings.Join(headers, " | "))
	b.WriteString("\n\nROWS:\n")

	for i, row := range rows {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.Join(row, " | "))
	}

	b.WriteString(`
TASK:
For EACH row, extract the person's details into the canonical contact shape.

RULES:
1. Map headers case-insensitively; exports use many synonyms (e.g. "E-mail
   Address" is an email, "Position" is a role, "Organization" is a company).
2. Placeholder values like "unknown", "n/a", "-", "<unknown>" mean NO DATA:
   emit an empty string instead, never the placeholder.
3. Split multi-value cells (comma or semicolon separated emails/phones).
4. Keep phone formatting as written; do not invent country codes.
5. Anything that fits no structured field goes into notes as "Header: value"
   lines joined with newlines.
6. Do not invent data that is not in the row.

OUTPUT FORMAT (JSON only, no markdown):
{
  "rows": [
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
    // ... exactly one entry per input row, in the same order
  ]
}

IMPORTANT: Respond with ONLY raw JSON. Do NOT wrap it in markdown code fences.`)

	return b.String()
}
