package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rolotools/rolo/internal/types"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// CreateContact inserts a new contact
func (p *PostgresStorage) CreateContact(ctx context.Context, contact *types.Contact) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	infoJSON, err := json.Marshal(contact.ContactInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO contacts (id, name, company, role, location, contact_info, notes, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, contact.ID, contact.Name, contact.Company, contact.Role, contact.Location,
		infoJSON, contact.Notes, string(contact.Source), contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID. Returns (nil, nil) when the
// contact does not exist.
func (p *PostgresStorage) GetContact(ctx context.Context, id string) (*types.Contact, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, company, role, location, contact_info, notes, source, created_at, updated_at
		FROM contacts WHERE id = $1
	`, id)

	contact, err := scanContact(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}
	return contact, nil
}

// UpdateContact replaces a contact's stored fields
func (p *PostgresStorage) UpdateContact(ctx context.Context, contact *types.Contact) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	infoJSON, err := json.Marshal(contact.ContactInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE contacts
		SET name = $1, company = $2, role = $3, location = $4, contact_info = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`, contact.Name, contact.Company, contact.Role, contact.Location,
		infoJSON, contact.Notes, contact.UpdatedAt, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact not found: %s", contact.ID)
	}
	return nil
}

// DeleteContact removes a contact by ID
func (p *PostgresStorage) DeleteContact(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact not found: %s", id)
	}
	return nil
}

// ListContacts returns contacts matching the filter, oldest first
func (p *PostgresStorage) ListContacts(ctx context.Context, filter types.ContactFilter) ([]*types.Contact, error) {
	query := `
		SELECT id, name, company, role, location, contact_info, notes, source, created_at, updated_at
		FROM contacts WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Source != nil {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, string(*filter.Source))
		argNum++
	}
	if filter.Company != nil {
		query += fmt.Sprintf(" AND company = $%d", argNum)
		args = append(args, *filter.Company)
		argNum++
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	return p.queryContacts(ctx, query, args...)
}

// SearchContacts returns contacts whose name, company, notes, or contact
// info contain the query text (case-insensitive)
func (p *PostgresStorage) SearchContacts(ctx context.Context, query string, filter types.ContactFilter) ([]*types.Contact, error) {
	sqlQuery := `
		SELECT id, name, company, role, location, contact_info, notes, source, created_at, updated_at
		FROM contacts
		WHERE (name ILIKE $1 OR company ILIKE $1 OR notes ILIKE $1 OR contact_info::text ILIKE $1)
	`
	pattern := "%" + query + "%"
	args := []interface{}{pattern}
	argNum := 2

	if filter.Source != nil {
		sqlQuery += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, string(*filter.Source))
		argNum++
	}
	sqlQuery += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	return p.queryContacts(ctx, sqlQuery, args...)
}

// CountContacts returns the total number of contacts
func (p *PostgresStorage) CountContacts(ctx context.Context) (int, error) {
	var count int
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

func (p *PostgresStorage) queryContacts(ctx context.Context, query string, args ...interface{}) ([]*types.Contact, error) {
	rows, err := p.pool.Query(ctx, query, args...)
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

// scanner covers both pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(row scanner) (*types.Contact, error) {
	var c types.Contact
	var infoJSON []byte
	var source string

	err := row.Scan(&c.ID, &c.Name, &c.Company, &c.Role, &c.Location,
		&infoJSON, &c.Notes, &source, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(infoJSON, &c.ContactInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact info: %w", err)
	}
	c.Source = types.Source(source)
	return &c, nil
}
