package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolotools/rolo/internal/merge"
	"github.com/rolotools/rolo/internal/storage/sqlite"
	"github.com/rolotools/rolo/internal/types"
)

func setupStore(t *testing.T) *sqlite.SQLiteStorage {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestImporter(store *sqlite.SQLiteStorage) *Importer {
	strategy := &merge.DeterministicStrategy{Now: func() time.Time { return time.Now().UTC() }}
	return NewImporter(store, strategy, nil)
}

func TestParseCSVHeaderMapping(t *testing.T) {
	input := `Full Name,E-mail Address,Phone Number,Organization,Job Title,City,LinkedIn URL
Jane Doe,jane@example.com,555-111-2222,Acme,Engineer,Portland,https://linkedin.com/in/janedoe
`
	parsed, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Parsed, 1)

	p := parsed.Parsed[0]
	assert.Equal(t, "Jane Doe", p.GetName())
	assert.Equal(t, "Acme", *p.Company)
	assert.Equal(t, "Engineer", *p.Role)
	assert.Equal(t, "Portland", *p.Location)
	assert.Equal(t, []string{"jane@example.com"}, p.Info().Emails)
	assert.Equal(t, []string{"555-111-2222"}, p.Info().Phones)
	assert.Equal(t, []string{"https://linkedin.com/in/janedoe"}, p.Info().LinkedInURLs)
}

func TestParseCSVFirstLastName(t *testing.T) {
	input := "First Name,Last Name,Email\nJohn,Smith,john@x.com\n"
	parsed, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Parsed, 1)
	assert.Equal(t, "John Smith", parsed.Parsed[0].GetName())
}

func TestParseCSVUnmappedColumnsBecomeNotes(t *testing.T) {
	input := "Name,Favorite Color,Connected On\nJane,blue,2024-01-15\n"
	parsed, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Parsed, 1)

	notes := parsed.Parsed[0].GetNotes()
	assert.Contains(t, notes, "Favorite Color: blue")
	assert.Contains(t, notes, "Connected On: 2024-01-15")
}

func TestParseCSVNumberedColumns(t *testing.T) {
	input := "Name,Email 1,Email 2\nJane,a@x.com,b@x.com\n"
	parsed, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, parsed.Parsed[0].Info().Emails)
}

func TestParseCSVScrubsPlaceholders(t *testing.T) {
	input := "Name,Company,Title\n<unknown>,N/A,Engineer\n"
	parsed, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Parsed, 1)

	p := parsed.Parsed[0]
	assert.Nil(t, p.Name, "placeholder name must not be mapped")
	assert.Nil(t, p.Company, "placeholder company must not be mapped")
	assert.Equal(t, "Engineer", *p.Role)
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRunInsertsNewContacts(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	input := "Name,Email\nJane Doe,jane@x.com\nJohn Smith,john@x.com\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceGoogle})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Merged)

	contacts, err := store.ListContacts(ctx, types.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.NotEmpty(t, contacts[0].ID)
	assert.Equal(t, types.SourceGoogle, contacts[0].Source)
	assert.False(t, contacts[0].CreatedAt.IsZero())
}

func TestRunMergesDuplicates(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	now := time.Now().UTC()
	existing := &types.Contact{
		ID:   "c-1",
		Name: "Jane Doe",
		ContactInfo: types.ContactInfo{
			Emails: []string{"jane@x.com"},
		},
		Source:    types.SourceManual,
		CreatedAt: now.Add(-24 * time.Hour),
		UpdatedAt: now.Add(-24 * time.Hour),
	}
	require.NoError(t, store.CreateContact(ctx, existing))

	input := "Name,Email,Company\nJane Doe,jane@x.com,Acme\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceLinkedIn})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Merged)

	merged, err := store.GetContact(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.Equal(t, "Acme", merged.Company)
	assert.Equal(t, types.SourceManual, merged.Source)
	assert.True(t, merged.UpdatedAt.After(existing.UpdatedAt))
}

func TestRunSequentialMergesAccumulate(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	now := time.Now().UTC()
	existing := &types.Contact{
		ID:          "c-1",
		Name:        "Jane Doe",
		ContactInfo: types.ContactInfo{Emails: []string{"jane@x.com"}},
		Source:      types.SourceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.CreateContact(ctx, existing))

	// Two rows match the same contact; the second merge must build on the
	// first merge's result, not the pre-merge record
	input := "Name,Email,Phone\nJane Doe,jane@x.com,555-111-2222\nJane Doe,jane@x.com,555-333-4444\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceGoogle})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Merged)

	merged, err := store.GetContact(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.ElementsMatch(t, []string{"555-111-2222", "555-333-4444"}, merged.ContactInfo.Phones,
		"the first merge's phone must survive the second merge")
}

func TestRunDetectsIntraBatchDuplicates(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	// Same email twice in one file: second row merges into the first
	input := "Name,Email\nJane Doe,jane@x.com\nJ. Doe,jane@x.com\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceGoogle})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Merged)

	count, err := store.CountContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunReviewQueuesDuplicates(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	existing := &types.Contact{
		ID:          "c-1",
		Name:        "Jane Doe",
		ContactInfo: types.ContactInfo{Emails: []string{"jane@x.com"}},
		Source:      types.SourceManual,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.CreateContact(ctx, existing))

	input := "Name,Email\nJane Doe,jane@x.com\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceGoogle, Review: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Queued)
	assert.Equal(t, 0, result.Merged)

	queue, err := LoadReviewQueue(ctx, store)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "c-1", queue[0].ExistingID)
	assert.Equal(t, types.MatchName, queue[0].MatchType)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	input := "Name,Email\nJane Doe,jane@x.com\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceGoogle, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	count, err := store.CountContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunSkipsNamelessRows(t *testing.T) {
	store := setupStore(t)
	im := newTestImporter(store)
	ctx := context.Background()

	input := "Name,Email\n,orphan@x.com\nJane Doe,jane@x.com\n"
	result, err := im.Run(ctx, strings.NewReader(input), Options{Source: types.SourceGoogle})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
}

func TestReviewQueueRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	items := []ReviewItem{
		{ExistingID: "c-1", Incoming: &types.PartialContact{Name: types.StringPtr("Jane")}, MatchType: types.MatchEmail, MatchValue: "jane@x.com"},
	}
	require.NoError(t, SaveReviewQueue(ctx, store, items))

	loaded, err := LoadReviewQueue(ctx, store)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c-1", loaded[0].ExistingID)
	assert.Equal(t, "Jane", loaded[0].Incoming.GetName())

	more := []ReviewItem{{ExistingID: "c-2", Incoming: &types.PartialContact{}}}
	require.NoError(t, AppendReviewQueue(ctx, store, more))

	loaded, err = LoadReviewQueue(ctx, store)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}
