package postgres

// schema is the PostgreSQL database schema, mirroring the sqlite layout
// with contact_info as JSONB
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	contact_info JSONB NOT NULL DEFAULT '{}',
	notes TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company);
CREATE INDEX IF NOT EXISTS idx_contacts_source ON contacts(source);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
