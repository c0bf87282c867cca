package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rolotools/rolo/internal/types"
)

// setupTestStorage connects to the database named by ROLO_TEST_PG_DSN and
// truncates the contact tables. Tests skip when no database is available.
func setupTestStorage(t *testing.T) *PostgresStorage {
	ctx := context.Background()

	dsn := os.Getenv("ROLO_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("Skipping PostgreSQL test (ROLO_TEST_PG_DSN not set)")
	}

	storage, err := New(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping PostgreSQL test (database not available): %v", err)
	}

	if _, err := storage.pool.Exec(ctx, "TRUNCATE TABLE contacts, config"); err != nil {
		t.Fatalf("Failed to clean up test database: %v", err)
	}

	t.Cleanup(func() { storage.Close() })
	return storage
}

func testContact(id, name string) *types.Contact {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &types.Contact{
		ID:   id,
		Name: name,
		ContactInfo: types.ContactInfo{
			Emails: []string{name + "@example.com"},
		},
		Source:    types.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetContact(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	contact := testContact("c-1", "alice")
	contact.Company = "Acme"
	contact.Notes = "Met at GopherCon"

	if err := storage.CreateContact(ctx, contact); err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}

	got, err := storage.GetContact(ctx, "c-1")
	if err != nil {
		t.Fatalf("Failed to get contact: %v", err)
	}
	if got == nil {
		t.Fatal("Expected contact, got nil")
	}
	if got.Name != "alice" || got.Company != "Acme" || got.Notes != "Met at GopherCon" {
		t.Errorf("Contact fields mismatch: %+v", got)
	}
	if len(got.ContactInfo.Emails) != 1 || got.ContactInfo.Emails[0] != "alice@example.com" {
		t.Errorf("Contact info not round-tripped: %+v", got.ContactInfo)
	}
}

func TestGetContactNotFound(t *testing.T) {
	storage := setupTestStorage(t)

	got, err := storage.GetContact(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing contact, got %+v", got)
	}
}

func TestUpdateContact(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	contact := testContact("c-2", "bob")
	if err := storage.CreateContact(ctx, contact); err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}

	contact.Company = "Initech"
	contact.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if err := storage.UpdateContact(ctx, contact); err != nil {
		t.Fatalf("Failed to update contact: %v", err)
	}

	got, err := storage.GetContact(ctx, "c-2")
	if err != nil {
		t.Fatalf("Failed to get contact: %v", err)
	}
	if got.Company != "Initech" {
		t.Errorf("Expected updated company, got %q", got.Company)
	}

	missing := testContact("c-missing", "nobody")
	if err := storage.UpdateContact(ctx, missing); err == nil {
		t.Error("Expected error updating missing contact")
	}
}

func TestDeleteContact(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	if err := storage.CreateContact(ctx, testContact("c-3", "carol")); err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	if err := storage.DeleteContact(ctx, "c-3"); err != nil {
		t.Fatalf("Failed to delete contact: %v", err)
	}
	if err := storage.DeleteContact(ctx, "c-3"); err == nil {
		t.Error("Expected error deleting already-deleted contact")
	}
}

func TestListAndSearchContacts(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	a := testContact("c-4", "dave")
	a.Company = "Acme"
	b := testContact("c-5", "erin")
	b.Company = "Initech"
	b.Source = types.SourceLinkedIn
	for _, c := range []*types.Contact{a, b} {
		if err := storage.CreateContact(ctx, c); err != nil {
			t.Fatalf("Failed to create contact: %v", err)
		}
	}

	all, err := storage.ListContacts(ctx, types.ContactFilter{})
	if err != nil {
		t.Fatalf("Failed to list contacts: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 contacts, got %d", len(all))
	}

	src := types.SourceLinkedIn
	filtered, err := storage.ListContacts(ctx, types.ContactFilter{Source: &src})
	if err != nil {
		t.Fatalf("Failed to list filtered contacts: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "c-5" {
		t.Errorf("Source filter returned wrong contacts: %+v", filtered)
	}

	found, err := storage.SearchContacts(ctx, "acme", types.ContactFilter{})
	if err != nil {
		t.Fatalf("Failed to search contacts: %v", err)
	}
	if len(found) != 1 || found[0].ID != "c-4" {
		t.Errorf("Search returned wrong contacts: %+v", found)
	}

	count, err := storage.CountContacts(ctx)
	if err != nil {
		t.Fatalf("Failed to count contacts: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	if err := storage.SetConfig(ctx, "review_queue", "[]"); err != nil {
		t.Fatalf("Failed to set config: %v", err)
	}
	got, err := storage.GetConfig(ctx, "review_queue")
	if err != nil {
		t.Fatalf("Failed to get config: %v", err)
	}
	if got != "[]" {
		t.Errorf("Expected config value [], got %q", got)
	}

	missing, err := storage.GetConfig(ctx, "missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != "" {
		t.Errorf("Expected empty value for missing key, got %q", missing)
	}
}
