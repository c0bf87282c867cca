package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rolotools/rolo/internal/types"
)

// CreateContact inserts a new contact
func (s *SQLiteStorage) CreateContact(ctx context.Context, contact *types.Contact) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	infoJSON, err := json.Marshal(contact.ContactInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, company, role, location, contact_info, notes, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID, contact.Name, contact.Company, contact.Role, contact.Location,
		string(infoJSON), contact.Notes, string(contact.Source), contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID. Returns (nil, nil) when the
// contact does not exist.
func (s *SQLiteStorage) GetContact(ctx context.Context, id string) (*types.Contact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, company, role, location, contact_info, notes, source, created_at, updated_at
		FROM contacts WHERE id = ?
	`, id)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}
	return contact, nil
}

// UpdateContact replaces a contact's stored fields. The ID must already
// exist; merges always write back under the existing contact's ID.
func (s *SQLiteStorage) UpdateContact(ctx context.Context, contact *types.Contact) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	infoJSON, err := json.Marshal(contact.ContactInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts
		SET name = ?, company = ?, role = ?, location = ?, contact_info = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, contact.Name, contact.Company, contact.Role, contact.Location,
		string(infoJSON), contact.Notes, contact.UpdatedAt, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found: %s", contact.ID)
	}
	return nil
}

// DeleteContact removes a contact by ID
func (s *SQLiteStorage) DeleteContact(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found: %s", id)
	}
	return nil
}

// ListContacts returns contacts matching the filter, oldest first
func (s *SQLiteStorage) ListContacts(ctx context.Context, filter types.ContactFilter) ([]*types.Contact, error) {
	query := `
		SELECT id, name, company, role, location, contact_info, notes, source, created_at, updated_at
		FROM contacts WHERE 1=1
	`
	args := []interface{}{}

	if filter.Source != nil {
		query += " AND source = ?"
		args = append(args, string(*filter.Source))
	}
	if filter.Company != nil {
		query += " AND company = ?"
		args = append(args, *filter.Company)
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.queryContacts(ctx, query, args...)
}

// SearchContacts returns contacts whose name, company, or notes contain
// the query text (case-insensitive)
func (s *SQLiteStorage) SearchContacts(ctx context.Context, query string, filter types.ContactFilter) ([]*types.Contact, error) {
	sqlQuery := `
		SELECT id, name, company, role, location, contact_info, notes, source, created_at, updated_at
		FROM contacts
		WHERE (name LIKE ? OR company LIKE ? OR notes LIKE ? OR contact_info LIKE ?)
	`
	pattern := "%" + query + "%"
	args := []interface{}{pattern, pattern, pattern, pattern}

	if filter.Source != nil {
		sqlQuery += " AND source = ?"
		args = append(args, string(*filter.Source))
	}
	sqlQuery += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.queryContacts(ctx, sqlQuery, args...)
}

// CountContacts returns the total number of contacts
func (s *SQLiteStorage) CountContacts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) queryContacts(ctx context.Context, query string, args ...interface{}) ([]*types.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*types.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(row scanner) (*types.Contact, error) {
	var c types.Contact
	var infoJSON, source string

	err := row.Scan(&c.ID, &c.Name, &c.Company, &c.Role, &c.Location,
		&infoJSON, &c.Notes, &source, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(infoJSON), &c.ContactInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact info: %w", err)
	}
	c.Source = types.Source(source)
	return &c, nil
}
