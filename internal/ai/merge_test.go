package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolotools/rolo/internal/types"
)

var mergeTime = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestApplyMergedEnforcesInvariants(t *testing.T) {
	existing := &types.Contact{
		ID:        "c1",
		Name:      "Ada Lovelace",
		Source:    types.SourceLinkedIn,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ContactInfo: types.ContactInfo{
			Emails: []string{"ada@example.com"},
		},
	}
	incoming := &types.PartialContact{
		ContactInfo: &types.ContactInfo{Emails: []string{"ada@work.com"}},
	}

	s := &MergeStrategy{Now: func() time.Time { return mergeTime }}

	// Model output tries to drop an email and claims a different name;
	// the value sets stay unioned locally
	merged := s.applyMerged(existing, incoming, mergedRecord{
		Name:   "Augusta Ada King, Countess of Lovelace",
		Emails: []string{"ada@work.com"},
		Notes:  "Connected on May 2023",
	})

	assert.Equal(t, "c1", merged.ID)
	assert.Equal(t, types.SourceLinkedIn, merged.Source)
	assert.Equal(t, existing.CreatedAt, merged.CreatedAt)
	assert.Equal(t, mergeTime, merged.UpdatedAt)
	assert.Equal(t, "Augusta Ada King, Countess of Lovelace", merged.Name)
	assert.Equal(t, []string{"ada@example.com", "ada@work.com"}, merged.ContactInfo.Emails,
		"model output must not shrink the email set")
	assert.Equal(t, "Connected on May 2023", merged.Notes,
		"the AI path keeps connection provenance lines")
}

func TestApplyMergedUnionsModelAddedValues(t *testing.T) {
	existing := &types.Contact{
		ID:     "c1",
		Name:   "Ada Lovelace",
		Source: types.SourceManual,
		ContactInfo: types.ContactInfo{
			Emails: []string{"ada@example.com"},
			Phones: []string{"555-111-2222"},
		},
	}

	s := &MergeStrategy{Now: func() time.Time { return mergeTime }}

	// The model surfaced an email from a notes line and echoed an existing
	// one with different casing; the new value is kept, the echo is not
	merged := s.applyMerged(existing, nil, mergedRecord{
		Emails: []string{"ADA@example.com", "ada@work.com"},
		Phones: []string{"(555) 111-2222"},
	})

	assert.Equal(t, []string{"ada@example.com", "ada@work.com"}, merged.ContactInfo.Emails)
	assert.Equal(t, []string{"555-111-2222"}, merged.ContactInfo.Phones,
		"a reformatted existing phone is not a new value")
}

func TestApplyMergedIgnoresPlaceholderOutput(t *testing.T) {
	existing := &types.Contact{
		ID:      "c1",
		Name:    "Ada Lovelace",
		Company: "Analytical Engines",
		Source:  types.SourceManual,
	}

	s := &MergeStrategy{Now: func() time.Time { return mergeTime }}
	merged := s.applyMerged(existing, nil, mergedRecord{
		Name:    "unknown",
		Company: "n/a",
	})

	assert.Equal(t, "Ada Lovelace", merged.Name, "placeholder name from the model is ignored")
	assert.Equal(t, "Analytical Engines", merged.Company)
}

func TestBuildMergePromptCarriesBothRecords(t *testing.T) {
	existing := &types.Contact{
		ID:      "c1",
		Name:    "Ada Lovelace",
		Company: "Analytical Engines",
		Notes:   "Met at conference",
		Source:  types.SourceManual,
		ContactInfo: types.ContactInfo{
			Emails: []string{"ada@example.com"},
		},
	}
	incoming := &types.PartialContact{
		Name:  types.StringPtr("A. Lovelace"),
		Notes: types.StringPtr("Connected on May 2023"),
	}

	prompt := buildMergePrompt(existing, incoming)

	assert.Contains(t, prompt, "Ada Lovelace")
	assert.Contains(t, prompt, "A. Lovelace")
	assert.Contains(t, prompt, "ada@example.com")
	assert.Contains(t, prompt, "Met at conference")
	assert.Contains(t, prompt, "Connected on May 2023")
	assert.Contains(t, prompt, "ONLY raw JSON")
}

func TestMergeStrategyRequiresClient(t *testing.T) {
	s := &MergeStrategy{}
	_, err := s.Merge(context.Background(), &types.Contact{ID: "c1", Name: "Ada", Source: types.SourceManual}, nil)
	require.Error(t, err)
	assert.Equal(t, "ai-assisted", s.Name())
}
