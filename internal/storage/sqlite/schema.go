package sqlite

// schema is the SQLite database schema. ContactInfo lives in a JSON
// column: the dedup/merge engine works on in-memory records, so the
// database never needs to index individual emails or phones.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	contact_info TEXT NOT NULL DEFAULT '{}',
	notes TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company);
CREATE INDEX IF NOT EXISTS idx_contacts_source ON contacts(source);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
